package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/domain"
)

var _ secondary.ExecutionRepository = (*ExecutionRepository)(nil)

// ExecutionRepository keeps execution records in process memory
type ExecutionRepository struct {
	mu         sync.RWMutex
	executions map[uuid.UUID]domain.Execution
}

func NewExecutionRepository() *ExecutionRepository {
	return &ExecutionRepository{
		executions: make(map[uuid.UUID]domain.Execution),
	}
}

func (r *ExecutionRepository) SaveExecution(ctx context.Context, execution *domain.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions[execution.ID] = *execution
	return nil
}

func (r *ExecutionRepository) GetExecution(ctx context.Context, executionID uuid.UUID) (*domain.Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	execution, ok := r.executions[executionID]
	if !ok {
		return nil, nil
	}
	return &execution, nil
}

func (r *ExecutionRepository) GetRecentExecutions(ctx context.Context, limit int) ([]*domain.Execution, error) {
	r.mu.RLock()
	executions := make([]*domain.Execution, 0, len(r.executions))
	for _, execution := range r.executions {
		execution := execution
		executions = append(executions, &execution)
	}
	r.mu.RUnlock()

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].CreatedAt.After(executions[j].CreatedAt)
	})
	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}
	return executions, nil
}
