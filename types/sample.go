package types

import "time"

// SampleType classifies how a sample's volume evolves over time.
type SampleType string

// Sample type constants.
const (
	// SampleGauge is a point-in-time reading (e.g. CPU utilisation percent).
	SampleGauge SampleType = "gauge"

	// SampleDelta is the change since the previous reading.
	SampleDelta SampleType = "delta"

	// SampleCumulative is a monotonically increasing total (e.g. bytes sent).
	SampleCumulative SampleType = "cumulative"
)

// Sample is one measurement produced by a pollster for one resource.
//
// Samples are the unit handed to publish batches; the core never inspects
// them beyond counting.
type Sample struct {
	// Name is the meter name, e.g. "cpu.util" or "network.outgoing.bytes".
	Name string `json:"name" yaml:"name"`

	// Type classifies the measurement (gauge, delta, cumulative).
	Type SampleType `json:"type" yaml:"type"`

	// Unit is the unit of measure, e.g. "%" or "B".
	Unit string `json:"unit" yaml:"unit"`

	// Volume is the measured value.
	Volume float64 `json:"volume" yaml:"volume"`

	// ResourceID names the resource the measurement was taken against.
	ResourceID Resource `json:"resourceId" yaml:"resourceId"`

	// Timestamp is when the measurement was taken.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Metadata carries pollster-specific annotations.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
