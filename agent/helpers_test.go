package agent

import (
	"context"
	"sync"

	"github.com/yanheven/ceilometer-1/internal/logging"
	"github.com/yanheven/ceilometer-1/types"
)

// fakePollster is a scriptable pollster: poll returns the configured
// samples or error and records every invocation.
type fakePollster struct {
	name             string
	defaultDiscovery string

	mu    sync.Mutex
	calls [][]types.Resource
	// errs is consumed one entry per call; nil entries mean success.
	errs    []error
	samples []types.Sample
}

var _ types.Pollster = (*fakePollster)(nil)

func (f *fakePollster) Name() string             { return f.name }
func (f *fakePollster) DefaultDiscovery() string { return f.defaultDiscovery }

func (f *fakePollster) GetSamples(_ context.Context, _ types.CycleCache, resources []types.Resource) ([]types.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]types.Resource(nil), resources...))
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	return f.samples, nil
}

func (f *fakePollster) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakePollster) call(i int) []types.Resource {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[i]
}

// fakeDiscoverer returns a fixed resource list and counts invocations.
type fakeDiscoverer struct {
	name    string
	groupID string

	mu        sync.Mutex
	calls     int
	resources []types.Resource
	err       error
}

var _ types.Discoverer = (*fakeDiscoverer)(nil)

func (f *fakeDiscoverer) Name() string    { return f.name }
func (f *fakeDiscoverer) GroupID() string { return f.groupID }

func (f *fakeDiscoverer) Discover(_ context.Context, _ string) ([]types.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	return f.resources, f.err
}

func (f *fakeDiscoverer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// fakePublisher hands out recording publish contexts keyed by source.
type fakePublisher struct {
	mu       sync.Mutex
	contexts map[string]*fakePublishContext
}

var _ types.Publisher = (*fakePublisher)(nil)

func newFakePublisher() *fakePublisher {
	return &fakePublisher{contexts: make(map[string]*fakePublishContext)}
}

func (f *fakePublisher) NewContext(source string) types.PublishContext {
	f.mu.Lock()
	defer f.mu.Unlock()

	pc := &fakePublishContext{source: source}
	f.contexts[source] = pc

	return pc
}

func (f *fakePublisher) context(source string) *fakePublishContext {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.contexts[source]
}

// fakePublishContext records registered pipelines and opened batches.
type fakePublishContext struct {
	source    string
	pipelines []types.Pipeline
	batches   []*fakeBatch
}

var _ types.PublishContext = (*fakePublishContext)(nil)

func (f *fakePublishContext) AddPipelines(pipelines ...types.Pipeline) {
	f.pipelines = append(f.pipelines, pipelines...)
}

func (f *fakePublishContext) Begin(_ context.Context) types.Batch {
	b := &fakeBatch{}
	f.batches = append(f.batches, b)

	return b
}

// fakeBatch records added samples and flush count.
type fakeBatch struct {
	samples []types.Sample
	flushes int
}

var _ types.Batch = (*fakeBatch)(nil)

func (f *fakeBatch) Add(samples ...types.Sample) {
	f.samples = append(f.samples, samples...)
}

func (f *fakeBatch) Flush(_ context.Context) error {
	f.flushes++

	return nil
}

// fakeCoordinator partitions deterministically through a fixed owner
// function, standing in for a real backend with a frozen membership
// snapshot.
type fakeCoordinator struct {
	active bool
	// owns decides whether this agent keeps the resource; nil keeps all.
	owns   func(groupID string, r types.Resource) bool
	joined []string
}

var _ types.Coordinator = (*fakeCoordinator)(nil)

func (f *fakeCoordinator) Start(context.Context) error { return nil }
func (f *fakeCoordinator) Stop(context.Context) error  { return nil }
func (f *fakeCoordinator) IsActive() bool              { return f.active }
func (f *fakeCoordinator) Heartbeat(context.Context) error {
	return nil
}

func (f *fakeCoordinator) JoinGroup(_ context.Context, groupID string) error {
	f.joined = append(f.joined, groupID)

	return nil
}

func (f *fakeCoordinator) ExtractMySubset(_ context.Context, groupID string, items []types.Resource) []types.Resource {
	if groupID == "" || f.owns == nil {
		return items
	}

	var mine []types.Resource
	for _, item := range items {
		if f.owns(groupID, item) {
			mine = append(mine, item)
		}
	}

	return mine
}

// newTestManager wires a manager around fakes with standalone (nop)
// coordination unless extra options say otherwise.
func newTestManager(cfg Config, reg *Registry, pipelines []types.Pipeline, pub types.Publisher, opts ...Option) (*Manager, error) {
	opts = append([]Option{WithLogger(logging.NewNop())}, opts...)

	return NewManager(&cfg, reg, staticPipelines(pipelines), pub, opts...)
}

// staticPipelines is a minimal in-package PipelineSource.
type staticPipelines []types.Pipeline

func (s staticPipelines) Pipelines(_ context.Context) ([]types.Pipeline, error) {
	return s, nil
}
