package types

import "context"

// Pollster measures one kind of meter for a set of resources.
//
// Implementations are registered with the agent registry under a namespace
// and looked up by name when polling tasks are built. A pollster instance is
// shared by every task that references it and therefore must be safe for
// concurrent GetSamples calls from tasks with different intervals.
type Pollster interface {
	// Name returns the unique meter name this pollster produces,
	// e.g. "cpu.util".
	Name() string

	// DefaultDiscovery returns the discovery URL to fall back to when a
	// pipeline pairs this pollster without resources of its own. Empty
	// means no fallback.
	DefaultDiscovery() string

	// GetSamples polls the given resources and returns the collected
	// samples. The cache is shared by all pollsters within the current
	// cycle and may be used for cross-pollster memoization.
	//
	// A *PermanentError return blacklists the named resource for this
	// (source, pollster) pairing; any other error is treated as transient
	// and retried naturally on the next cycle.
	GetSamples(ctx context.Context, cache CycleCache, resources []Resource) ([]Sample, error)
}

// Discoverer enumerates resources dynamically, for example by listing the
// instances currently running on a hypervisor.
type Discoverer interface {
	// Name returns the discoverer name matched against discovery URL
	// schemes, e.g. "instance" for "instance://".
	Name() string

	// GroupID names the partition group this discoverer's results are
	// partitioned under. Discoverers sharing a group id split their
	// results across cooperating agents. Empty disables partitioning.
	GroupID() string

	// Discover returns the current resource set. The param is the
	// remainder of the discovery URL after the scheme.
	Discover(ctx context.Context, param string) ([]Resource, error)
}
