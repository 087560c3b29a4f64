package execution

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/domain"
)

// Task is the background body of a long-running execution. The returned
// string is the result message stored on the execution record.
type Task func(ctx context.Context, console primary.Console) (string, error)

// IExecutionService runs long-running algorithm executions in the background
type IExecutionService interface {
	// Schedule records a new execution, opens its console session and starts
	// task on its own goroutine. It returns as soon as the task is started.
	Schedule(ctx context.Context, algorithm domain.AlgorithmID, task Task) (*domain.Execution, error)

	// GetExecution retrieves an execution, errs.ErrExecutionNotFound if unknown
	GetExecution(ctx context.Context, executionID uuid.UUID) (*domain.Execution, error)

	// GetRecentExecutions retrieves the newest executions first
	GetRecentExecutions(ctx context.Context, limit int) ([]*domain.Execution, error)

	// Shutdown cancels running executions and waits for them to record
	// their final state or for ctx to expire
	Shutdown(ctx context.Context) error
}
