// Package metrics provides the no-op types.MetricsCollector used when the
// caller does not inject one.
package metrics

import (
	"time"

	"github.com/yanheven/ceilometer-1/types"
)

// NopCollector discards all recorded metrics.
type NopCollector struct{}

// Compile-time assertion that NopCollector implements MetricsCollector.
var _ types.MetricsCollector = (*NopCollector)(nil)

// NewNop creates a metrics collector that performs no operations.
func NewNop() *NopCollector {
	return &NopCollector{}
}

// RecordCycleDuration discards the measurement.
func (n *NopCollector) RecordCycleDuration(_ time.Duration, _ float64) {}

// RecordPollDuration discards the measurement.
func (n *NopCollector) RecordPollDuration(_, _ string, _ float64) {}

// RecordSamples discards the measurement.
func (n *NopCollector) RecordSamples(_, _ string, _ int) {}

// RecordPollFailure discards the measurement.
func (n *NopCollector) RecordPollFailure(_, _ string, _ bool) {}

// RecordBlacklistSize discards the measurement.
func (n *NopCollector) RecordBlacklistSize(_, _ string, _ int) {}

// RecordDiscoveryDuration discards the measurement.
func (n *NopCollector) RecordDiscoveryDuration(_ string, _ float64) {}

// RecordDiscoveryFailure discards the measurement.
func (n *NopCollector) RecordDiscoveryFailure(_ string) {}
