// Package testutil provides fixtures and assertions shared by toolforge tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// RequireFatal asserts that outcome is a fatal error of the given kind whose
// report is the single error line, and returns the message.
func RequireFatal(t *testing.T, outcome *entities.ExecutionOutcome, kind string) string {
	t.Helper()

	require.NotNil(t, outcome)
	require.True(t, outcome.HasFatalError(), "expected a fatal error, got report:\n%s", outcome)
	assert.Equal(t, kind, outcome.ErrorKind, outcome.FatalError)
	assert.False(t, outcome.Success())
	assert.Equal(t, "Error: "+outcome.FatalError+"\n", outcome.String())
	return outcome.FatalError
}

// RequireExited asserts that the process ran to completion with code.
func RequireExited(t *testing.T, outcome *entities.ExecutionOutcome, code int) {
	t.Helper()

	require.NotNil(t, outcome)
	require.False(t, outcome.HasFatalError(), "unexpected fatal error: %s", outcome.FatalError)
	require.False(t, outcome.TimedOut, "process timed out")
	got, ok := outcome.Code()
	require.True(t, ok, "outcome has no exit code")
	assert.Equal(t, code, got, outcome.String())
	assert.Equal(t, code == 0, outcome.Success())
}

// AssertDurationBetween asserts that min <= d <= max.
func AssertDurationBetween(t *testing.T, d, min, max time.Duration) {
	t.Helper()

	assert.GreaterOrEqual(t, d, min, "duration %v below %v", d, min)
	assert.LessOrEqual(t, d, max, "duration %v above %v", d, max)
}
