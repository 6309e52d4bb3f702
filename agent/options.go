package agent

import (
	"math/rand"

	"github.com/yanheven/ceilometer-1/types"
)

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	coordinator types.Coordinator
	logger      types.Logger
	metrics     types.MetricsCollector
	rand        *rand.Rand
}

// WithCoordinator sets the partition coordination backend.
//
// When no coordinator is supplied, the manager runs standalone: resource
// lists are never partitioned and the whole static and discovered sets are
// polled by this agent.
//
// Example:
//
//	coord, _ := coordination.New(natsConn, coordination.Config{})
//	mgr, _ := agent.NewManager(&cfg, reg, src, pub, agent.WithCoordinator(coord))
func WithCoordinator(coordinator types.Coordinator) Option {
	return func(o *managerOptions) {
		o.coordinator = coordinator
	}
}

// WithLogger sets a logger.
//
// The Logger interface is compatible with zap.SugaredLogger; the default is
// a slog-backed logger writing to the process default handler.
func WithLogger(logger types.Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer)
//	mgr, _ := agent.NewManager(&cfg, reg, src, pub, agent.WithMetrics(collector))
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}

// WithRand sets the random source used to draw the pre-poll shuffle delay.
//
// Injecting a seeded source makes scheduling deterministic under test; the
// default source is seeded from the current time.
func WithRand(r *rand.Rand) Option {
	return func(o *managerOptions) {
		o.rand = r
	}
}
