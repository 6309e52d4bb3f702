package coordination

import "errors"

// Sentinel errors returned by the Coordinator.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid coordination configuration")

	// ErrConnectionRequired is returned when the NATS connection is nil.
	ErrConnectionRequired = errors.New("NATS connection is required")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("coordinator already started")

	// ErrNotStarted is returned by operations that require Start first.
	ErrNotStarted = errors.New("coordinator not started")
)
