// Package metrics provides a Prometheus implementation of the polling
// core's MetricsCollector contract.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yanheven/ceilometer-1/types"
)

// PrometheusCollector records polling metrics into a Prometheus registry.
type PrometheusCollector struct {
	cycleDuration     *prometheus.HistogramVec
	pollDuration      *prometheus.HistogramVec
	samples           *prometheus.CounterVec
	pollFailures      *prometheus.CounterVec
	blacklistSize     *prometheus.GaugeVec
	discoveryDuration *prometheus.HistogramVec
	discoveryFailures *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a collector registering its metrics with reg.
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer)
//	mgr, _ := agent.NewManager(&cfg, registry, src, pub, agent.WithMetrics(collector))
func NewPrometheus(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)

	return &PrometheusCollector{
		cycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polling",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of complete polling cycles per task interval.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"interval"}),
		pollDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polling",
			Name:      "pollster_duration_seconds",
			Help:      "Duration of individual pollster invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 10),
		}, []string{"source", "pollster"}),
		samples: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "samples_total",
			Help:      "Samples collected per source and pollster.",
		}, []string{"source", "pollster"}),
		pollFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "pollster_failures_total",
			Help:      "Failed pollster invocations, split by failure kind.",
		}, []string{"source", "pollster", "kind"}),
		blacklistSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "polling",
			Name:      "blacklisted_resources",
			Help:      "Resources blacklisted per (source, pollster) pairing.",
		}, []string{"source", "pollster"}),
		discoveryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polling",
			Name:      "discovery_duration_seconds",
			Help:      "Duration of discoverer invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 10),
		}, []string{"discoverer"}),
		discoveryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "discovery_failures_total",
			Help:      "Failed or unresolved discovery attempts.",
		}, []string{"discoverer"}),
	}
}

// RecordCycleDuration records one completed polling cycle.
func (p *PrometheusCollector) RecordCycleDuration(interval time.Duration, seconds float64) {
	p.cycleDuration.WithLabelValues(interval.String()).Observe(seconds)
}

// RecordPollDuration records one pollster invocation.
func (p *PrometheusCollector) RecordPollDuration(source, pollster string, seconds float64) {
	p.pollDuration.WithLabelValues(source, pollster).Observe(seconds)
}

// RecordSamples records collected samples.
func (p *PrometheusCollector) RecordSamples(source, pollster string, count int) {
	p.samples.WithLabelValues(source, pollster).Add(float64(count))
}

// RecordPollFailure records a failed pollster invocation.
func (p *PrometheusCollector) RecordPollFailure(source, pollster string, permanent bool) {
	kind := "transient"
	if permanent {
		kind = "permanent"
	}
	p.pollFailures.WithLabelValues(source, pollster, kind).Inc()
}

// RecordBlacklistSize sets the blacklist length of one pairing.
func (p *PrometheusCollector) RecordBlacklistSize(source, pollster string, size int) {
	p.blacklistSize.WithLabelValues(source, pollster).Set(float64(size))
}

// RecordDiscoveryDuration records one discoverer invocation.
func (p *PrometheusCollector) RecordDiscoveryDuration(discoverer string, seconds float64) {
	p.discoveryDuration.WithLabelValues(discoverer).Observe(seconds)
}

// RecordDiscoveryFailure records a failed or unresolved discovery.
func (p *PrometheusCollector) RecordDiscoveryFailure(discoverer string) {
	p.discoveryFailures.WithLabelValues(discoverer).Inc()
}
