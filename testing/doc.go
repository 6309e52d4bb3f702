// Package testing provides test utilities for the polling core.
//
// It offers helpers for setting up test environments, particularly embedded
// NATS servers for coordination integration tests, following Go's convention
// of dedicated testing packages (similar to net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    agenttest "github.com/yanheven/ceilometer-1/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := agenttest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
