package agent

import (
	"fmt"
	"time"
)

// Config is the configuration for the Manager.
//
// All duration fields accept standard Go duration strings like "30s", "5m"
// when loaded from YAML.
type Config struct {
	// Namespaces selects which registry namespaces to load pollsters
	// from, e.g. ["compute", "central"]. The sorted namespace list is
	// also the base of every partition group id, so all agents meant to
	// share work must agree on it.
	Namespaces []string `yaml:"namespaces"`

	// GroupPrefix is an optional extra token appended to the namespace
	// prefix of partition group ids. Lets several independent fleets
	// share one coordination backend.
	GroupPrefix string `yaml:"groupPrefix"`

	// PollsterPatterns restricts loaded pollsters to those whose name
	// matches at least one glob pattern. Mutually exclusive with
	// partition coordination.
	PollsterPatterns []string `yaml:"pollsterPatterns"`

	// ShuffleWindow is the upper bound of the random pre-poll delay.
	// Spreading first polls across [0, ShuffleWindow) prevents a fleet of
	// agents started together from hitting their targets simultaneously.
	// 0 disables the jitter.
	ShuffleWindow time.Duration `yaml:"shuffleWindow"`

	// HeartbeatInterval is how often the coordinator heartbeat fires.
	// Recommended: a third of the backend's membership TTL.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`

	// PollTimeout bounds one pollster's GetSamples call. 0 disables the
	// bound, restoring the original unbounded behavior.
	PollTimeout time.Duration `yaml:"pollTimeout"`

	// DiscoveryTimeout bounds one discoverer's Discover call. 0 disables
	// the bound.
	DiscoveryTimeout time.Duration `yaml:"discoveryTimeout"`

	// ShutdownTimeout is the maximum time Stop waits for in-flight
	// polling cycles to finish.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Namespaces:        []string{"central"},
		ShuffleWindow:     0,
		HeartbeatInterval: 2 * time.Second,
		PollTimeout:       0,
		DiscoveryTimeout:  0,
		ShutdownTimeout:   10 * time.Second,
	}
}

// ApplyDefaults fills zero-valued fields of cfg with defaults. Explicitly
// configured values are preserved.
func ApplyDefaults(cfg *Config) {
	def := DefaultConfig()
	if len(cfg.Namespaces) == 0 {
		cfg.Namespaces = def.Namespaces
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = def.HeartbeatInterval
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
}

// Validate checks the configuration for consistency.
//
// Returns an error wrapping ErrInvalidConfig when a field is out of range.
func (c *Config) Validate() error {
	if c.ShuffleWindow < 0 {
		return fmt.Errorf("%w: shuffleWindow must not be negative, got %v", ErrInvalidConfig, c.ShuffleWindow)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeatInterval must be positive, got %v", ErrInvalidConfig, c.HeartbeatInterval)
	}
	if c.PollTimeout < 0 {
		return fmt.Errorf("%w: pollTimeout must not be negative, got %v", ErrInvalidConfig, c.PollTimeout)
	}
	if c.DiscoveryTimeout < 0 {
		return fmt.Errorf("%w: discoveryTimeout must not be negative, got %v", ErrInvalidConfig, c.DiscoveryTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdownTimeout must be positive, got %v", ErrInvalidConfig, c.ShutdownTimeout)
	}
	for _, ns := range c.Namespaces {
		if ns == "" {
			return fmt.Errorf("%w: namespaces must not contain empty entries", ErrInvalidConfig)
		}
	}

	return nil
}
