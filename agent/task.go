package agent

import (
	"context"

	"github.com/yanheven/ceilometer-1/types"
)

// pollingTask is the unit of scheduling: every (source, pollster) pairing
// sharing one polling interval, with one publish context per source. The
// task does not know which interval it belongs to; the manager tracks tasks
// in a map keyed by interval.
type pollingTask struct {
	manager *Manager

	// pairings maps a source name to the set of pollsters registered to
	// it, keyed by pollster name.
	pairings map[string]map[string]types.Pollster

	// publishers maps a source name to its publish context.
	publishers map[string]types.PublishContext

	// resources maps each pairing to its resource set, created on first
	// access.
	resources map[pairingKey]*resourceSet
}

// newPollingTask creates an initially empty polling task.
func newPollingTask(manager *Manager) *pollingTask {
	return &pollingTask{
		manager:    manager,
		pairings:   make(map[string]map[string]types.Pollster),
		publishers: make(map[string]types.PublishContext),
		resources:  make(map[pairingKey]*resourceSet),
	}
}

// add registers a pollster under the pipeline's source.
//
// Adding the same pollster to the same source twice is a no-op on the
// pollster set, but the pairing's resource set is always re-configured
// against the latest pipeline (last write wins).
func (t *pollingTask) add(pollster types.Pollster, pipeline types.Pipeline) {
	source := pipeline.Source

	publisher, ok := t.publishers[source]
	if !ok {
		publisher = t.manager.publisher.NewContext(source)
		t.publishers[source] = publisher
	}
	publisher.AddPipelines(pipeline)

	if t.pairings[source] == nil {
		t.pairings[source] = make(map[string]types.Pollster)
	}
	t.pairings[source][pollster.Name()] = pollster

	t.resourceSet(pairingKey{source: source, pollster: pollster.Name()}).setup(pipeline)
}

// resourceSet returns the resource set for the pairing, creating it on
// first access.
func (t *pollingTask) resourceSet(key pairingKey) *resourceSet {
	rs, ok := t.resources[key]
	if !ok {
		rs = &resourceSet{manager: t.manager}
		t.resources[key] = rs
	}

	return rs
}

// pollAndPublish runs one polling cycle: resolve resources, poll every
// pollster, and hand the samples to each source's publish batch.
//
// A cycle never fails as a whole. Every per-pollster and per-discoverer
// failure is caught here, classified, and either blacklists the failed
// resource (permanent) or is logged and retried naturally next cycle
// (transient).
func (t *pollingTask) pollAndPublish(ctx context.Context) {
	// Both caches live for exactly one cycle: the discovery cache
	// guarantees each URL is resolved at most once per cycle, and the
	// cycle cache gives pollsters shared scratch space.
	cache := types.CycleCache{}
	discoveryCache := types.DiscoveryCache{}

	for source, pollsters := range t.pairings {
		t.pollSource(ctx, source, pollsters, cache, discoveryCache)
	}
}

// pollSource polls every pollster registered to one source inside a publish
// batch scope. The batch flushes exactly once when the scope exits, no
// matter how many pollsters ran or failed.
func (t *pollingTask) pollSource(
	ctx context.Context,
	source string,
	pollsters map[string]types.Pollster,
	cache types.CycleCache,
	discoveryCache types.DiscoveryCache,
) {
	logger := t.manager.logger

	batch := t.publishers[source].Begin(ctx)
	defer func() {
		if err := batch.Flush(ctx); err != nil {
			logger.Error("failed to flush publish batch", "source", source, "error", err)
		}
	}()

	for _, pollster := range pollsters {
		t.pollOne(ctx, source, pollster, batch, cache, discoveryCache)
	}
}

// pollOne resolves one pairing's targets and runs a single pollster.
func (t *pollingTask) pollOne(
	ctx context.Context,
	source string,
	pollster types.Pollster,
	batch types.Batch,
	cache types.CycleCache,
	discoveryCache types.DiscoveryCache,
) {
	logger := t.manager.logger
	name := pollster.Name()

	logger.Debug("polling pollster", "pollster", name, "source", source)

	rs := t.resourceSet(pairingKey{source: source, pollster: name})
	candidates := rs.get(ctx, discoveryCache)

	// Source-level resources always win; the pollster's own default
	// discovery is only consulted when the pipeline yields nothing.
	if len(candidates) == 0 && pollster.DefaultDiscovery() != "" {
		candidates = t.manager.discover(ctx, []string{pollster.DefaultDiscovery()}, discoveryCache)
	}

	targets := make([]types.Resource, 0, len(candidates))
	for _, r := range candidates {
		if !rs.blacklisted(r) {
			targets = append(targets, r)
		}
	}

	if len(targets) == 0 {
		logger.Info("skipping pollster, no resources found", "pollster", name, "source", source)

		return
	}

	samples, err := t.manager.getSamples(ctx, source, pollster, cache, targets)
	if err != nil {
		if perr, ok := types.AsPermanent(err); ok {
			logger.Error("blacklisting resource after permanent pollster failure",
				"pollster", name, "source", source, "resource", perr.Resource, "error", err)
			rs.addToBlacklist(perr.Resource)
			t.manager.metrics.RecordPollFailure(source, name, true)
			t.manager.metrics.RecordBlacklistSize(source, name, len(rs.blacklist))

			return
		}

		logger.Warn("continuing after pollster error", "pollster", name, "source", source, "error", err)
		t.manager.metrics.RecordPollFailure(source, name, false)

		return
	}

	batch.Add(samples...)
	t.manager.metrics.RecordSamples(source, name, len(samples))
}
