package ports

import (
	"context"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

// ExecutionObserver is notified around every engine call.
// Observers must not block and must not retain the outcome beyond the call.
type ExecutionObserver interface {
	// ExecutionStarted is called once the call begins, before executable resolution.
	ExecutionStarted(ctx context.Context, tool string)

	// ExecutionFinished is called with the final outcome of the call.
	ExecutionFinished(ctx context.Context, tool string, outcome *entities.ExecutionOutcome)
}
