package types

import "context"

// Coordinator is the partition-coordination backend contract.
//
// A coordinator assigns each fleet member a deterministic, non-overlapping
// subset of every group's partitioned resource lists. Two agents joined to
// the same group and observing the same membership snapshot must extract
// disjoint, complementary subsets; this is required for correctness of
// fleet-wide deduplication, not a performance optimization.
//
// Implementations must tolerate concurrent ExtractMySubset calls from every
// polling task alongside Heartbeat calls from the agent's heartbeat timer.
type Coordinator interface {
	// Start connects to the backend. Must be called before JoinGroup.
	Start(ctx context.Context) error

	// Stop leaves all groups and disconnects.
	Stop(ctx context.Context) error

	// JoinGroup registers this member in the named group. Joining a group
	// twice is a no-op.
	JoinGroup(ctx context.Context, groupID string) error

	// IsActive reports whether coordination is in effect. Inactive
	// coordinators (single-agent deployments) pass resource lists through
	// unpartitioned.
	IsActive() bool

	// ExtractMySubset returns the members of items assigned to this agent
	// under the given group. An empty groupID disables partitioning and
	// returns items unchanged. Must be deterministic for a fixed
	// membership snapshot.
	ExtractMySubset(ctx context.Context, groupID string, items []Resource) []Resource

	// Heartbeat refreshes this member's liveness in every joined group.
	Heartbeat(ctx context.Context) error
}
