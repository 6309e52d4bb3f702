package types

import "time"

// MetricsCollector defines methods for recording the polling core's
// operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called from concurrent polling cycles and must be
// thread-safe.
type MetricsCollector interface {
	// RecordCycleDuration records one completed polling cycle for the
	// task scheduled at the given interval.
	RecordCycleDuration(interval time.Duration, seconds float64)

	// RecordPollDuration records one pollster invocation.
	RecordPollDuration(source, pollster string, seconds float64)

	// RecordSamples records how many samples one pollster invocation
	// contributed.
	RecordSamples(source, pollster string, count int)

	// RecordPollFailure records a failed pollster invocation. permanent
	// distinguishes blacklisting failures from transient ones.
	RecordPollFailure(source, pollster string, permanent bool)

	// RecordBlacklistSize sets the current blacklist length for a
	// (source, pollster) pairing.
	RecordBlacklistSize(source, pollster string, size int)

	// RecordDiscoveryDuration records one discoverer invocation.
	RecordDiscoveryDuration(discoverer string, seconds float64)

	// RecordDiscoveryFailure records a failed or unresolved discovery,
	// including unknown discoverer names.
	RecordDiscoveryFailure(discoverer string)
}
