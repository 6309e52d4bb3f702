package agent

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/yanheven/ceilometer-1/internal/hashutil"
	"github.com/yanheven/ceilometer-1/internal/logging"
	"github.com/yanheven/ceilometer-1/internal/metrics"
	"github.com/yanheven/ceilometer-1/types"
)

// Manager is the polling agent's top-level orchestrator.
//
// It loads pollster and discoverer extensions from the registry, groups
// pipeline × pollster combinations into interval-keyed polling tasks, joins
// the partition groups the tasks depend on, and drives one recurring timer
// per distinct interval plus the coordinator heartbeat.
//
// Lifecycle:
//   - Create with NewManager()
//   - Call Start() to join groups and begin polling
//   - Call Stop() for graceful shutdown
//
// Thread safety: Start and Stop are safe for concurrent use and serialize
// against each other; polling cycles
// for different intervals run on independent goroutines, while pollsters
// within one cycle run sequentially against their source's publish batch.
type Manager struct {
	cfg            Config
	registry       *Registry
	pipelineSource types.PipelineSource
	publisher      types.Publisher

	// Optional dependencies
	coordinator types.Coordinator
	logger      types.Logger
	metrics     types.MetricsCollector
	rand        *rand.Rand

	// Loaded extensions
	pollsters   []types.Pollster
	discoverers *xsync.Map[string, types.Discoverer]

	// groupPrefix is the namespace-derived prefix of every partition
	// group id this agent constructs.
	groupPrefix string

	// Lifecycle management. lifecycleMu serializes Start and Stop so a
	// Stop arriving while a slow Start is still loading pipelines or
	// joining groups waits for it instead of racing the half-built state.
	lifecycleMu sync.Mutex
	started     bool
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewManager creates a Manager, loads its extensions, and validates the
// configuration.
//
// Extension loading is tolerant: a factory that fails is skipped and logged,
// never aborting the load of the remaining plugins. Combining a pollster
// name filter with a coordinator is a configuration error; see
// ErrPollsterListForbidden.
//
// Parameters:
//   - cfg: Runtime configuration; zero fields are filled with defaults
//   - registry: Plugin registry pollsters and discoverers were published into
//   - pipelineSource: Supplier of pipeline definitions
//   - publisher: Factory for per-source publish contexts
//   - opts: Optional configuration (coordinator, logger, metrics, rand)
//
// Returns:
//   - *Manager: Initialized manager instance
//   - error: Validation error if the configuration is invalid
//
// Example:
//
//	cfg := agent.DefaultConfig()
//	src, _ := pipeline.NewFileSource("pipeline.yaml")
//	mgr, err := agent.NewManager(&cfg, registry, src, publisher)
func NewManager(
	cfg *Config,
	registry *Registry,
	pipelineSource types.PipelineSource,
	publisher types.Publisher,
	opts ...Option,
) (*Manager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if pipelineSource == nil {
		return nil, ErrPipelineSourceRequired
	}
	if publisher == nil {
		return nil, ErrPublisherRequired
	}

	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Coordinated partitioning and an explicit pollster filter are
	// mutually exclusive; see ErrPollsterListForbidden.
	if len(cfg.PollsterPatterns) > 0 && options.coordinator != nil {
		return nil, ErrPollsterListForbidden
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewSlogDefault()
	}
	collector := options.metrics
	if collector == nil {
		collector = metrics.NewNop()
	}
	coordinator := options.coordinator
	if coordinator == nil {
		coordinator = nopCoordinator{}
	}
	randSource := options.rand
	if randSource == nil {
		randSource = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // jitter only, not security sensitive
	}

	m := &Manager{
		cfg:            *cfg,
		registry:       registry,
		pipelineSource: pipelineSource,
		publisher:      publisher,
		coordinator:    coordinator,
		logger:         logger,
		metrics:        collector,
		rand:           randSource,
		discoverers:    xsync.NewMap[string, types.Discoverer](),
		groupPrefix:    groupPrefix(cfg.Namespaces, cfg.GroupPrefix),
	}

	if err := m.loadExtensions(); err != nil {
		return nil, err
	}

	return m, nil
}

// groupPrefix composes the partition group prefix from the sorted namespace
// list and the optional configured suffix.
func groupPrefix(namespaces []string, suffix string) string {
	sorted := slices.Clone(namespaces)
	slices.Sort(sorted)
	prefix := strings.Join(sorted, "-")
	if suffix != "" {
		prefix = prefix + "-" + suffix
	}

	return prefix
}

// loadExtensions instantiates pollsters from every configured namespace,
// applying the optional name filter, and all registered discoverers.
func (m *Manager) loadExtensions() error {
	onError := func(kind string) func(name string, err error) {
		return func(name string, err error) {
			m.logger.Error("skipping extension that failed to load",
				"kind", kind, "name", name, "error", err)
		}
	}

	for _, namespace := range m.cfg.Namespaces {
		for _, pollster := range m.registry.loadPollsters(namespace, onError("pollster")) {
			if len(m.cfg.PollsterPatterns) > 0 && !matchAny(m.cfg.PollsterPatterns, pollster.Name()) {
				continue
			}
			m.pollsters = append(m.pollsters, pollster)
		}
	}
	if len(m.pollsters) == 0 {
		return fmt.Errorf("%w: namespaces %v", ErrNoPollsters, m.cfg.Namespaces)
	}

	for _, discoverer := range m.registry.loadDiscoverers(onError("discoverer")) {
		m.discoverers.Store(discoverer.Name(), discoverer)
	}

	return nil
}

// matchAny reports whether the name matches at least one glob pattern.
// A malformed pattern is treated as a literal name.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		ok, err := path.Match(pattern, name)
		if err != nil {
			ok = pattern == name
		}
		if ok {
			return true
		}
	}

	return false
}

// constructGroupID derives a partition group id from a discovery group id
// or a static-set hash. An empty id means no partitioning applies.
func (m *Manager) constructGroupID(id string) string {
	if id == "" {
		return ""
	}

	return m.groupPrefix + "-" + id
}

// setupPollingTasks builds the interval-keyed polling tasks from every
// pipeline × pollster combination the pipelines accept.
func (m *Manager) setupPollingTasks(pipelines []types.Pipeline) map[time.Duration]*pollingTask {
	tasks := make(map[time.Duration]*pollingTask)
	for _, pipeline := range pipelines {
		for _, pollster := range m.pollsters {
			if !pipeline.SupportMeter(pollster.Name()) {
				continue
			}
			task, ok := tasks[pipeline.Interval]
			if !ok {
				task = newPollingTask(m)
				tasks[pipeline.Interval] = task
			}
			task.add(pollster, pipeline)
		}
	}

	return tasks
}

// joinPartitionGroups joins one partition group per discoverer-declared
// group id and one per pipeline with a non-empty static resource list.
func (m *Manager) joinPartitionGroups(ctx context.Context, pipelines []types.Pipeline) error {
	groups := make(map[string]struct{})
	m.discoverers.Range(func(_ string, d types.Discoverer) bool {
		if group := m.constructGroupID(d.GroupID()); group != "" {
			groups[group] = struct{}{}
		}

		return true
	})
	// Each distinct set of statically-defined resources gets its own group.
	for _, pipeline := range pipelines {
		if len(pipeline.Resources) > 0 {
			groups[m.constructGroupID(hashutil.HashOfSet(pipeline.Resources))] = struct{}{}
		}
	}

	for group := range groups {
		if err := m.coordinator.JoinGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to join partition group %s: %w", group, err)
		}
	}

	return nil
}

// Start fetches pipelines, builds polling tasks, joins partition groups and
// begins polling.
//
// Each distinct interval gets one recurring timer. The first poll of every
// task is delayed by a random jitter drawn from [0, ShuffleWindow); when
// coordination is active the task's own interval is added on top, giving
// peer membership time to stabilize before the first partitioned poll.
func (m *Manager) Start(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if m.started {
		return ErrAlreadyStarted
	}

	pipelines, err := m.pipelineSource.Pipelines(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipelines: %w", err)
	}

	if err := m.coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start coordinator: %w", err)
	}
	if err := m.joinPartitionGroups(ctx, pipelines); err != nil {
		return err
	}

	tasks := m.setupPollingTasks(pipelines)

	jitter := m.drawJitter()
	delayStart := m.coordinator.IsActive()

	m.ctx, m.cancel = context.WithCancel(context.Background())

	for interval, task := range tasks {
		initialDelay := startDelay(jitter, interval, delayStart)
		m.logger.Info("scheduling polling task",
			"interval", interval, "initialDelay", initialDelay,
			"sources", len(task.pairings))

		m.wg.Add(1)
		go m.runTask(interval, task, initialDelay)
	}

	m.wg.Add(1)
	go m.runHeartbeat()

	m.started = true

	return nil
}

// drawJitter draws the fleet-wide pre-poll delay from [0, ShuffleWindow).
// A zero window means no jitter.
func (m *Manager) drawJitter() time.Duration {
	if m.cfg.ShuffleWindow <= 0 {
		return 0
	}

	return time.Duration(m.rand.Int63n(int64(m.cfg.ShuffleWindow)))
}

// startDelay computes one task's initial delay: the jitter alone when
// running standalone, plus the task's own interval under active coordination
// so peer membership can stabilize before the first partitioned poll.
func startDelay(jitter, interval time.Duration, coordinated bool) time.Duration {
	if coordinated {
		return jitter + interval
	}

	return jitter
}

// runTask drives one polling task: an initial delay, then one cycle per
// interval tick until shutdown. Ticks never overlap; a cycle that runs past
// its interval simply delays subsequent ticks.
func (m *Manager) runTask(interval time.Duration, task *pollingTask, initialDelay time.Duration) {
	defer m.wg.Done()

	timer := time.NewTimer(initialDelay)
	defer timer.Stop()
	select {
	case <-m.ctx.Done():
		return
	case <-timer.C:
	}

	m.runCycle(interval, task)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runCycle(interval, task)
		}
	}
}

// runCycle executes one polling cycle and records its duration.
func (m *Manager) runCycle(interval time.Duration, task *pollingTask) {
	start := time.Now()
	task.pollAndPublish(m.ctx)
	m.metrics.RecordCycleDuration(interval, time.Since(start).Seconds())
}

// runHeartbeat refreshes coordinator membership on the configured period.
func (m *Manager) runHeartbeat() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.coordinator.Heartbeat(m.ctx); err != nil {
				m.logger.Warn("coordinator heartbeat failed", "error", err)
			}
		}
	}
}

// Stop cancels all polling timers, waits for in-flight cycles up to the
// shutdown timeout, and stops the coordinator.
func (m *Manager) Stop(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if !m.started {
		return ErrNotStarted
	}
	m.started = false

	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(m.cfg.ShutdownTimeout):
		m.logger.Warn("shutdown timeout expired with polling cycles still in flight",
			"timeout", m.cfg.ShutdownTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := m.coordinator.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop coordinator: %w", err)
	}

	return nil
}

// discover resolves discovery URLs to resources, reusing per-cycle cached
// results and partitioning each discoverer's output under its group.
//
// Resolution is partial on failure: an unknown discoverer name or a failed
// Discover call skips that URL and the remaining URLs still resolve.
func (m *Manager) discover(ctx context.Context, urls []string, cache types.DiscoveryCache) []types.Resource {
	var resources []types.Resource
	for _, rawURL := range urls {
		if cache != nil {
			if cached, ok := cache[rawURL]; ok {
				resources = append(resources, cached...)

				continue
			}
		}

		name, param := parseDiscoveryURL(rawURL)
		discoverer, ok := m.discoverers.Load(name)
		if !ok {
			m.logger.Warn("unknown discovery extension", "name", name, "url", rawURL)
			m.metrics.RecordDiscoveryFailure(name)

			continue
		}

		discovered, err := m.runDiscoverer(ctx, discoverer, param)
		if err != nil {
			m.logger.Error("unable to discover resources", "name", name, "url", rawURL, "error", err)
			m.metrics.RecordDiscoveryFailure(name)

			continue
		}

		partitioned := m.coordinator.ExtractMySubset(ctx, m.constructGroupID(discoverer.GroupID()), discovered)
		resources = append(resources, partitioned...)
		if cache != nil {
			cache[rawURL] = partitioned
		}
	}

	return resources
}

// runDiscoverer invokes one discoverer under the configured timeout budget.
func (m *Manager) runDiscoverer(ctx context.Context, discoverer types.Discoverer, param string) ([]types.Resource, error) {
	if m.cfg.DiscoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.DiscoveryTimeout)
		defer cancel()
	}

	start := time.Now()
	discovered, err := discoverer.Discover(ctx, param)
	m.metrics.RecordDiscoveryDuration(discoverer.Name(), time.Since(start).Seconds())

	return discovered, err
}

// getSamples invokes one pollster under the configured timeout budget.
func (m *Manager) getSamples(
	ctx context.Context,
	source string,
	pollster types.Pollster,
	cache types.CycleCache,
	targets []types.Resource,
) ([]types.Sample, error) {
	if m.cfg.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.PollTimeout)
		defer cancel()
	}

	start := time.Now()
	samples, err := pollster.GetSamples(ctx, cache, targets)
	m.metrics.RecordPollDuration(source, pollster.Name(), time.Since(start).Seconds())

	return samples, err
}

// parseDiscoveryURL splits a discovery URL into the discoverer name and its
// parameter. The name is the URL scheme when present ("instance://..."),
// otherwise the whole path ("instance"); the parameter is the remainder.
func parseDiscoveryURL(rawURL string) (name, param string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, ""
	}
	if parsed.Scheme == "" {
		return parsed.Path, ""
	}

	return parsed.Scheme, parsed.Host + parsed.Path
}

// nopCoordinator is the standalone-mode coordinator: membership is never
// partitioned and every resource list passes through unchanged.
type nopCoordinator struct{}

var _ types.Coordinator = nopCoordinator{}

func (nopCoordinator) Start(context.Context) error              { return nil }
func (nopCoordinator) Stop(context.Context) error               { return nil }
func (nopCoordinator) JoinGroup(context.Context, string) error  { return nil }
func (nopCoordinator) IsActive() bool                           { return false }
func (nopCoordinator) Heartbeat(context.Context) error          { return nil }
func (nopCoordinator) ExtractMySubset(_ context.Context, _ string, items []types.Resource) []types.Resource {
	return items
}
