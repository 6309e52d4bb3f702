package types

// Resource identifies one target a pollster measures, such as an instance ID,
// a host name, or an endpoint URL. Resources compare by value; the polling
// core never interprets their contents.
type Resource string

// DiscoveryCache memoizes discovery results for the duration of one polling
// cycle, keyed by discovery URL. A URL referenced by several pairings in the
// same cycle is resolved at most once.
//
// The cache is scoped to a single invocation of a task's poll cycle and is
// never shared across cycles or tasks.
type DiscoveryCache map[string][]Resource

// CycleCache is scratch space shared by all pollsters within one polling
// cycle, allowing cross-pollster memoization of expensive lookups (for
// example, a per-cycle snapshot of instance metadata). Its contents are
// opaque to the core and discarded when the cycle ends.
type CycleCache map[string]any
