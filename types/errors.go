package types

import (
	"errors"
	"fmt"
)

// PermanentError reports that a pollster can never succeed against one
// specific resource. The polling task blacklists the resource for that
// (source, pollster) pairing; the pollster itself keeps running against its
// remaining targets.
type PermanentError struct {
	// Resource is the resource to exclude from future cycles.
	Resource Resource

	// Cause is the underlying failure, if any.
	Cause error
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("permanent failure polling resource %q: %v", e.Resource, e.Cause)
	}

	return fmt.Sprintf("permanent failure polling resource %q", e.Resource)
}

// Unwrap returns the underlying cause.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// AsPermanent extracts a *PermanentError from err's chain, if present.
func AsPermanent(err error) (*PermanentError, bool) {
	var perr *PermanentError
	if errors.As(err, &perr) {
		return perr, true
	}

	return nil, false
}
