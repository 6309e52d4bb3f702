package testing

import (
	"testing"

	"github.com/yanheven/ceilometer-1/types"
)

// NewTestLogger returns a types.Logger that forwards every message to
// t.Logf, so agent and coordinator output lands in the test's own log and
// only surfaces when the test fails. Fatal maps to t.Fatalf and fails the
// test instead of exiting the process.
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

func (l *testLogger) logf(level, msg string, keysAndValues []any) {
	l.t.Helper()
	l.t.Logf("%s %s %v", level, msg, keysAndValues)
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.logf("DEBUG", msg, keysAndValues)
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.logf("INFO", msg, keysAndValues)
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.logf("WARN", msg, keysAndValues)
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.logf("ERROR", msg, keysAndValues)
}

func (l *testLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Helper()
	l.t.Fatalf("FATAL %s %v", msg, keysAndValues)
}
