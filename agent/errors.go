package agent

import "errors"

// Sentinel errors returned by the Manager.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPollsterListForbidden is returned when an explicit pollster name
	// filter is combined with partition coordination. The two are mutually
	// exclusive: coordinated partitioning already guarantees
	// non-overlapping work, and a filter on top of it could silently
	// duplicate or drop meters across agents.
	ErrPollsterListForbidden = errors.New(
		"pollster name filter cannot be used together with partition coordination; " +
			"use either multiple coordinated agents or a filter on a single agent")

	// ErrRegistryRequired is returned when the plugin registry is nil.
	ErrRegistryRequired = errors.New("plugin registry is required")

	// ErrPipelineSourceRequired is returned when the pipeline source is nil.
	ErrPipelineSourceRequired = errors.New("pipeline source is required")

	// ErrPublisherRequired is returned when the publisher is nil.
	ErrPublisherRequired = errors.New("publisher is required")

	// ErrAlreadyStarted is returned when Start is called on a running manager.
	ErrAlreadyStarted = errors.New("manager already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("manager not started")

	// ErrNoPollsters is returned when extension loading yields no pollsters
	// for the configured namespaces and filter.
	ErrNoPollsters = errors.New("no pollsters loaded")
)
