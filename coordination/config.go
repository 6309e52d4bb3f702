package coordination

import (
	"fmt"
	"time"
)

// Config is the configuration for the NATS-backed coordinator.
//
// All duration fields accept standard Go duration strings like "30s" when
// loaded from YAML.
type Config struct {
	// MemberID identifies this agent in every joined group. Must be
	// unique across the fleet; when empty a random id is generated,
	// which is fine unless stable identity across restarts is wanted.
	MemberID string `yaml:"memberId"`

	// Bucket is the JetStream KV bucket holding group membership.
	// All agents meant to coordinate must share one bucket.
	Bucket string `yaml:"bucket"`

	// MembershipTTL is how long a member's group entry survives without
	// a heartbeat before the member is considered gone. Must be well
	// above the agent's heartbeat interval; recommended 3-5x.
	MembershipTTL time.Duration `yaml:"membershipTtl"`

	// OperationTimeout bounds individual KV operations (put, list).
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// VirtualNodes is the number of hash ring positions per member.
	// Higher counts split partitioned resource lists more evenly.
	VirtualNodes int `yaml:"virtualNodes"`
}

// DefaultConfig returns a Config with sensible defaults. The member id is
// left empty and generated at construction.
func DefaultConfig() Config {
	return Config{
		Bucket:           "polling-coordination",
		MembershipTTL:    30 * time.Second,
		OperationTimeout: 10 * time.Second,
		VirtualNodes:     100,
	}
}

// ApplyDefaults fills zero-valued fields of cfg with defaults.
func ApplyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Bucket == "" {
		cfg.Bucket = def.Bucket
	}
	if cfg.MembershipTTL == 0 {
		cfg.MembershipTTL = def.MembershipTTL
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = def.OperationTimeout
	}
	if cfg.VirtualNodes == 0 {
		cfg.VirtualNodes = def.VirtualNodes
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: bucket must not be empty", ErrInvalidConfig)
	}
	if c.MembershipTTL <= 0 {
		return fmt.Errorf("%w: membershipTtl must be positive, got %v", ErrInvalidConfig, c.MembershipTTL)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("%w: operationTimeout must be positive, got %v", ErrInvalidConfig, c.OperationTimeout)
	}
	if c.VirtualNodes < 0 {
		return fmt.Errorf("%w: virtualNodes must not be negative, got %v", ErrInvalidConfig, c.VirtualNodes)
	}

	return nil
}
