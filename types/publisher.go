package types

import "context"

// Publisher creates publish contexts, one per source name. It is the
// boundary to the sample publishing transport, which is outside the polling
// core.
type Publisher interface {
	// NewContext creates a publish context for one source. Called once
	// per source when polling tasks are built.
	NewContext(source string) PublishContext
}

// PublishContext accumulates the pipelines feeding one source and opens one
// publish batch per polling cycle.
//
// A context is owned by a single polling task and is not required to be safe
// for concurrent use; the task opens at most one batch at a time.
type PublishContext interface {
	// AddPipelines registers pipelines whose sinks the context publishes
	// to. Called while tasks are built, before any batch is opened.
	AddPipelines(pipelines ...Pipeline)

	// Begin opens a batch for one polling cycle. The caller must flush
	// the returned batch exactly once, regardless of how many pollsters
	// ran or failed within the cycle.
	Begin(ctx context.Context) Batch
}

// Batch collects the samples of one source for one polling cycle and
// forwards them on Flush.
type Batch interface {
	// Add appends samples to the batch.
	Add(samples ...Sample)

	// Flush forwards everything collected so far to the publishing
	// transport. Called exactly once, when the cycle's scope exits.
	Flush(ctx context.Context) error
}
