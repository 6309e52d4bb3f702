// Package agent implements the scheduling and execution core of a
// distributed telemetry-collection agent.
//
// Many identical agents run across a fleet; each periodically invokes a set
// of measurement plugins (pollsters) against a set of target resources and
// hands the resulting samples to a publishing pipeline. The core guarantees
// that no two coordinated agents redundantly poll the same resource and that
// the failure of a single pollster or resource never takes down the agent.
//
// # Quick Start
//
//	reg := agent.NewRegistry()
//	reg.RegisterPollster("central", "cpu.util", newCPUPollster)
//	reg.RegisterDiscoverer("instance", newInstanceDiscoverer)
//
//	cfg := agent.DefaultConfig()
//	src, _ := pipeline.NewFileSource("pipeline.yaml")
//
//	mgr, err := agent.NewManager(&cfg, reg, src, publisher)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mgr.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop(context.Background())
//
// # Architecture
//
// The manager groups every pipeline × pollster combination that shares a
// polling interval into one polling task and drives one recurring timer per
// interval, with a random pre-poll jitter so a fleet started together does
// not hit its targets simultaneously.
//
// Each cycle, a task resolves the resources of every (source, pollster)
// pairing: statically configured resources are partitioned across
// cooperating agents through the coordination backend, dynamically
// discovered resources are resolved through discovery URLs and cached for
// the cycle, and resources that previously failed permanently are filtered
// out through a pairing-scoped blacklist. Samples from all pollsters of one
// source are published in a single batch that flushes exactly once per
// cycle.
//
// # Fleet coordination
//
// Partitioning is delegated to a types.Coordinator. The coordination
// subpackage provides a NATS JetStream backed implementation; without a
// coordinator the agent polls every resource itself. Using a pollster name
// filter together with coordination is rejected at construction, since the
// combination could silently duplicate or drop meters across the fleet.
package agent
