package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

const finalWriteTimeout = 5 * time.Second

var _ IExecutionService = (*ExecutionService)(nil)

// ExecutionService implements IExecutionService
type ExecutionService struct {
	executionRepo secondary.ExecutionRepository
	console       console.IConsoleService
	logger        primary.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	now     func() time.Time
}

func NewExecutionService(
	executionRepo secondary.ExecutionRepository,
	consoleSvc console.IConsoleService,
	logger primary.Logger,
) *ExecutionService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExecutionService{
		executionRepo: executionRepo,
		console:       consoleSvc,
		logger:        logger,
		baseCtx:       ctx,
		cancel:        cancel,
		now:           time.Now,
	}
}

func (s *ExecutionService) Schedule(ctx context.Context, algorithm domain.AlgorithmID, task Task) (*domain.Execution, error) {
	execution := &domain.Execution{
		ID:        uuid.New(),
		Algorithm: algorithm,
		Status:    domain.ExecutionStatusAccepted,
		CreatedAt: s.now(),
	}

	if err := s.console.OpenSession(ctx, execution.ID); err != nil {
		s.logger.Error("Failed to open console session", "executionId", execution.ID, "error", err)
		return nil, fmt.Errorf("failed to schedule execution: %w", err)
	}
	if err := s.executionRepo.SaveExecution(ctx, execution); err != nil {
		s.logger.Error("Failed to save execution", "executionId", execution.ID, "error", err)
		return nil, fmt.Errorf("failed to schedule execution: %w", err)
	}

	s.console.Publish(ctx, execution.ID, fmt.Sprintf("execution of %s accepted", algorithm))
	s.logger.Info("Execution scheduled", "executionId", execution.ID, "algorithm", algorithm)

	accepted := *execution
	s.wg.Add(1)
	go s.run(execution, task)

	return &accepted, nil
}

func (s *ExecutionService) run(execution *domain.Execution, task Task) {
	defer s.wg.Done()
	ctx := s.baseCtx

	started := s.now()
	execution.Status = domain.ExecutionStatusRunning
	execution.StartedAt = &started
	s.save(execution)

	message, err := s.invoke(ctx, execution.ID, task)

	completed := s.now()
	execution.CompletedAt = &completed
	if err != nil {
		execution.Status = domain.ExecutionStatusFailed
		execution.Message = err.Error()
		s.publishFinal(execution.ID, fmt.Sprintf("execution failed: %v", err))
		s.logger.Warn("Execution failed", "executionId", execution.ID, "error", err)
	} else {
		execution.Status = domain.ExecutionStatusCompleted
		execution.Message = message
		s.publishFinal(execution.ID, fmt.Sprintf("execution completed: %s", message))
		s.logger.Info("Execution completed", "executionId", execution.ID, "duration", completed.Sub(started))
	}
	s.save(execution)
}

// publishFinal writes the closing console line even when the service context
// is cancelled, so late subscribers can replay how the execution ended.
func (s *ExecutionService) publishFinal(id uuid.UUID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), finalWriteTimeout)
	defer cancel()
	s.console.Publish(ctx, id, text)
}

// invoke runs task and turns a panic into a failed execution.
func (s *ExecutionService) invoke(ctx context.Context, id uuid.UUID, task Task) (message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("execution panicked: %v", r)
		}
	}()
	return task(ctx, s.console.Console(id))
}

// save stores the final states even when the service context is cancelled.
func (s *ExecutionService) save(execution *domain.Execution) {
	ctx, cancel := context.WithTimeout(context.Background(), finalWriteTimeout)
	defer cancel()

	snapshot := *execution
	if err := s.executionRepo.SaveExecution(ctx, &snapshot); err != nil {
		s.logger.Error("Failed to update execution", "executionId", execution.ID, "status", execution.Status, "error", err)
	}
}

func (s *ExecutionService) GetExecution(ctx context.Context, executionID uuid.UUID) (*domain.Execution, error) {
	execution, err := s.executionRepo.GetExecution(ctx, executionID)
	if err != nil {
		s.logger.Error("Failed to get execution", "executionId", executionID, "error", err)
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	if execution == nil {
		return nil, errs.ErrExecutionNotFound
	}
	return execution, nil
}

func (s *ExecutionService) GetRecentExecutions(ctx context.Context, limit int) ([]*domain.Execution, error) {
	executions, err := s.executionRepo.GetRecentExecutions(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to get recent executions", "error", err)
		return nil, fmt.Errorf("failed to get recent executions: %w", err)
	}
	return executions, nil
}

func (s *ExecutionService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
