// Package coordination implements the partition-coordination backend on top
// of NATS JetStream.
//
// Group membership lives in a JetStream KV bucket with a TTL: joining a
// group writes a member key, heartbeats rewrite it, and a member that stops
// heartbeating ages out after the TTL. Subset extraction places the current
// members of a group on a consistent hash ring and keeps the resources this
// member owns, so agents observing the same membership snapshot extract
// disjoint, complementary subsets without talking to each other.
package coordination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nuid"

	"github.com/yanheven/ceilometer-1/internal/logging"
	"github.com/yanheven/ceilometer-1/internal/ring"
	"github.com/yanheven/ceilometer-1/types"
)

// Coordinator is the NATS JetStream KV backed types.Coordinator.
//
// Membership reads from polling tasks and membership writes from the
// heartbeat timer run concurrently; all shared state is guarded internally.
type Coordinator struct {
	conn   *nats.Conn
	cfg    Config
	logger types.Logger

	mu      sync.RWMutex
	started bool
	kv      jetstream.KeyValue
	groups  map[string]struct{}
}

// Compile-time assertion that Coordinator implements types.Coordinator.
var _ types.Coordinator = (*Coordinator)(nil)

// New creates a Coordinator using the given NATS connection.
//
// Parameters:
//   - conn: NATS connection; JetStream must be enabled on the server
//   - cfg: Coordinator configuration; zero fields are filled with defaults
//   - logger: Structured logger; nil falls back to the slog default
//
// Returns:
//   - *Coordinator: Initialized coordinator, not yet started
//   - error: Validation error if the configuration is invalid
func New(conn *nats.Conn, cfg Config, logger types.Logger) (*Coordinator, error) {
	if conn == nil {
		return nil, ErrConnectionRequired
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MemberID == "" {
		cfg.MemberID = "agent-" + nuid.Next()
	}
	if logger == nil {
		logger = logging.NewSlogDefault()
	}

	return &Coordinator{
		conn:   conn,
		cfg:    cfg,
		logger: logger,
		groups: make(map[string]struct{}),
	}, nil
}

// MemberID returns this coordinator's fleet-wide member identity.
func (c *Coordinator) MemberID() string {
	return c.cfg.MemberID
}

// Start opens the membership KV bucket, creating it when absent.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}

	js, err := jetstream.New(c.conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := c.ensureBucket(ctx, js)
	if err != nil {
		return err
	}

	c.kv = kv
	c.started = true
	c.logger.Info("coordination started", "member", c.cfg.MemberID, "bucket", c.cfg.Bucket)

	return nil
}

// ensureBucket creates or opens the membership bucket, retrying the races
// that occur when several agents create it concurrently.
func (c *Coordinator) ensureBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		kv, err := js.CreateKeyValue(opCtx, jetstream.KeyValueConfig{
			Bucket: c.cfg.Bucket,
			TTL:    c.cfg.MembershipTTL,
		})
		if err == nil {
			return kv, nil
		}
		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err = js.KeyValue(opCtx, c.cfg.Bucket)
			if err == nil {
				return kv, nil
			}
		}
		lastErr = err

		select {
		case <-opCtx.Done():
			return nil, fmt.Errorf("failed to open membership bucket %s: %w", c.cfg.Bucket, opCtx.Err())
		case <-time.After(time.Duration(1<<uint(attempt)) * 10 * time.Millisecond): //nolint:gosec // attempt < 3
		}
	}

	return nil, fmt.Errorf("failed to open membership bucket %s: %w", c.cfg.Bucket, lastErr)
}

// Stop deletes this member's group entries and forgets all joined groups.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()
	for group := range c.groups {
		if err := c.kv.Delete(opCtx, memberKey(group, c.cfg.MemberID)); err != nil {
			// Best effort; the TTL reclaims the entry anyway.
			c.logger.Warn("failed to leave group", "group", group, "error", err)
		}
	}

	c.groups = make(map[string]struct{})
	c.started = false
	c.logger.Info("coordination stopped", "member", c.cfg.MemberID)

	return nil
}

// JoinGroup registers this member in the named group. Joining an already
// joined group refreshes the membership entry.
func (c *Coordinator) JoinGroup(ctx context.Context, groupID string) error {
	if groupID == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrNotStarted
	}

	if err := c.publishMembership(ctx, groupID); err != nil {
		return fmt.Errorf("failed to join group %s: %w", groupID, err)
	}
	c.groups[groupID] = struct{}{}
	c.logger.Info("joined partition group", "group", groupID, "member", c.cfg.MemberID)

	return nil
}

// IsActive reports whether the coordinator has been started.
func (c *Coordinator) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.started
}

// Heartbeat refreshes this member's entry in every joined group, keeping it
// ahead of the membership TTL.
func (c *Coordinator) Heartbeat(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return ErrNotStarted
	}

	var errs []error
	for group := range c.groups {
		if err := c.publishMembership(ctx, group); err != nil {
			errs = append(errs, fmt.Errorf("group %s: %w", group, err))
		}
	}

	return errors.Join(errs...)
}

// ExtractMySubset returns the resources this member owns under the group's
// current membership. An empty group id disables partitioning and returns
// items unchanged.
//
// When membership cannot be read, nil is returned: polling nothing for one
// cycle is preferred over double-polling resources another agent owns.
func (c *Coordinator) ExtractMySubset(ctx context.Context, groupID string, items []types.Resource) []types.Resource {
	if groupID == "" {
		return items
	}

	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return items
	}

	members, err := c.groupMembers(ctx, groupID)
	if err != nil {
		c.logger.Error("failed to read group membership", "group", groupID, "error", err)

		return nil
	}
	if len(members) == 0 {
		return nil
	}

	r := ring.New(members, c.cfg.VirtualNodes)
	mine := make([]types.Resource, 0, len(items)/len(members)+1)
	for _, item := range items {
		if r.Owner(string(item)) == c.cfg.MemberID {
			mine = append(mine, item)
		}
	}

	return mine
}

// groupMembers lists the members currently present in a group.
func (c *Coordinator) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	lister, err := c.kv.ListKeys(opCtx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, err
	}

	prefix := groupID + "."
	var members []string
	for key := range lister.Keys() {
		if member, ok := strings.CutPrefix(key, prefix); ok && !strings.Contains(member, ".") {
			members = append(members, member)
		}
	}

	return members, nil
}

// publishMembership writes this member's entry for a group. Callers hold
// the coordinator lock.
func (c *Coordinator) publishMembership(ctx context.Context, groupID string) error {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	_, err := c.kv.Put(opCtx, memberKey(groupID, c.cfg.MemberID), []byte(time.Now().UTC().Format(time.RFC3339Nano)))

	return err
}

// memberKey builds the KV key for one member's entry in one group.
func memberKey(groupID, memberID string) string {
	return groupID + "." + memberID
}
