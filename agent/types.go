package agent

import "github.com/yanheven/ceilometer-1/types"

// Re-export types from the shared types package.
//
// This file provides a stable public API for the polling core's types. It
// uses type aliases to re-export definitions from the `types` subpackage,
// which contains the actual implementations.
//
// This pattern lets internal packages (coordination, pipeline, logging)
// depend on `types` without depending on the root agent package, while still
// providing a convenient `agent.Pollster`, `agent.Sample`, etc. for users.
type (
	Resource       = types.Resource
	Sample         = types.Sample
	Pipeline       = types.Pipeline
	DiscoveryCache = types.DiscoveryCache
	CycleCache     = types.CycleCache
	PermanentError = types.PermanentError
)

// Re-export the collaborator interfaces for convenience.
type (
	Pollster         = types.Pollster
	Discoverer       = types.Discoverer
	PipelineSource   = types.PipelineSource
	Publisher        = types.Publisher
	PublishContext   = types.PublishContext
	Batch            = types.Batch
	Coordinator      = types.Coordinator
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)
