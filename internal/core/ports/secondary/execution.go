package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/domain"
)

type ExecutionRepository interface {
	// SaveExecution inserts or updates an execution record
	SaveExecution(ctx context.Context, execution *domain.Execution) error

	// GetExecution retrieves an execution by ID, nil if it does not exist
	GetExecution(ctx context.Context, executionID uuid.UUID) (*domain.Execution, error)

	// GetRecentExecutions retrieves the newest executions first
	GetRecentExecutions(ctx context.Context, limit int) ([]*domain.Execution, error)
}
