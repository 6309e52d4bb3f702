package agent

import (
	"context"
	"slices"

	"github.com/yanheven/ceilometer-1/internal/hashutil"
	"github.com/yanheven/ceilometer-1/types"
)

// pairingKey identifies one (source, pollster) pairing within a task. At
// most one resource set exists per key per task.
type pairingKey struct {
	source   string
	pollster string
}

// resourceSet resolves, caches and filters the resources one pairing polls.
//
// Static resources and discovery URLs are recorded once at setup from the
// owning pipeline; the blacklist grows monotonically as the owning task
// observes permanent pollster failures and is never trimmed for the life of
// the task.
type resourceSet struct {
	manager *Manager

	static    []types.Resource
	discovery []string
	blacklist []types.Resource
}

// setup records the pipeline's static resources and discovery URLs.
// Calling setup again overwrites both; the blacklist is kept.
func (rs *resourceSet) setup(pipeline types.Pipeline) {
	rs.static = pipeline.Resources
	rs.discovery = pipeline.Discovery
}

// get returns the pairing's current resources: the coordinator-partitioned
// static list followed by the discovered list. The two portions are not
// deduplicated against each other; static and discovery lists are expected
// to be disjoint.
//
// The static portion is partitioned under a group id derived from an
// order-independent hash of the static set, so all pipelines listing the
// same resources share one partition group.
func (rs *resourceSet) get(ctx context.Context, cache types.DiscoveryCache) []types.Resource {
	var discovered []types.Resource
	if len(rs.discovery) > 0 {
		discovered = rs.manager.discover(ctx, rs.discovery, cache)
	}

	var static []types.Resource
	if len(rs.static) > 0 {
		group := rs.manager.constructGroupID(hashutil.HashOfSet(rs.static))
		static = rs.manager.coordinator.ExtractMySubset(ctx, group, rs.static)
	}

	result := make([]types.Resource, 0, len(static)+len(discovered))
	result = append(result, static...)
	result = append(result, discovered...)

	return result
}

// blacklisted reports whether the resource was blacklisted for this pairing.
func (rs *resourceSet) blacklisted(r types.Resource) bool {
	return slices.Contains(rs.blacklist, r)
}

// addToBlacklist permanently excludes the resource from this pairing's
// future cycles. Duplicate entries are ignored.
func (rs *resourceSet) addToBlacklist(r types.Resource) {
	if !rs.blacklisted(r) {
		rs.blacklist = append(rs.blacklist, r)
	}
}
