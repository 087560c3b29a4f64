package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/sysalgs.net/internal/adapter/logging"
	"gitlab.com/sysalgs.net/internal/adapter/memory"
	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

func newTestService() (*ExecutionService, *console.Hub) {
	logger := logging.NewNopLogger()
	hub := console.NewHub(memory.NewConsoleLogRepository(100), 16, logger)
	return NewExecutionService(memory.NewExecutionRepository(), hub, logger), hub
}

func waitFinished(t *testing.T, svc *ExecutionService, id uuid.UUID) *domain.Execution {
	t.Helper()
	var execution *domain.Execution
	require.Eventually(t, func() bool {
		var err error
		execution, err = svc.GetExecution(context.Background(), id)
		return err == nil && execution.Finished()
	}, 2*time.Second, 5*time.Millisecond)
	return execution
}

func TestScheduleRunsTaskAndRecordsResult(t *testing.T) {
	svc, hub := newTestService()
	ctx := context.Background()

	release := make(chan struct{})
	execution, err := svc.Schedule(ctx, domain.AlgorithmJohnson, func(ctx context.Context, c primary.Console) (string, error) {
		<-release
		c.Printf("working")
		return "all pairs computed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusAccepted, execution.Status)
	assert.Equal(t, domain.AlgorithmJohnson, execution.Algorithm)

	sub, err := hub.Subscribe(ctx, execution.ID)
	require.NoError(t, err)
	defer hub.Unsubscribe(sub)
	require.Len(t, sub.Backlog, 1)
	assert.Contains(t, sub.Backlog[0], "execution of johnson accepted")

	close(release)
	finished := waitFinished(t, svc, execution.ID)

	assert.Equal(t, domain.ExecutionStatusCompleted, finished.Status)
	assert.Equal(t, "all pairs computed", finished.Message)
	require.NotNil(t, finished.StartedAt)
	require.NotNil(t, finished.CompletedAt)

	assert.Contains(t, <-sub.Lines(), "working")
	assert.Contains(t, <-sub.Lines(), "execution completed: all pairs computed")
}

func TestScheduleRecordsFailureAndPanic(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	failed, err := svc.Schedule(ctx, domain.AlgorithmRucksackPTAS, func(ctx context.Context, c primary.Console) (string, error) {
		return "", errors.New("capacity must be positive")
	})
	require.NoError(t, err)
	panicked, err := svc.Schedule(ctx, domain.AlgorithmRucksackFPTAS, func(ctx context.Context, c primary.Console) (string, error) {
		panic("boom")
	})
	require.NoError(t, err)

	got := waitFinished(t, svc, failed.ID)
	assert.Equal(t, domain.ExecutionStatusFailed, got.Status)
	assert.Equal(t, "capacity must be positive", got.Message)

	got = waitFinished(t, svc, panicked.ID)
	assert.Equal(t, domain.ExecutionStatusFailed, got.Status)
	assert.Contains(t, got.Message, "boom")
}

func TestGetExecutionUnknown(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetExecution(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrExecutionNotFound)
}

func TestShutdownCancelsRunningTasks(t *testing.T) {
	svc, _ := newTestService()

	execution, err := svc.Schedule(context.Background(), domain.AlgorithmJohnson, func(ctx context.Context, c primary.Console) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	got, err := svc.GetExecution(context.Background(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusFailed, got.Status)
}

// contextCheckingRepository rejects writes on a done context, as a network
// store would.
type contextCheckingRepository struct {
	secondary.ConsoleLogRepository
}

func (r contextCheckingRepository) AppendLine(ctx context.Context, sessionID uuid.UUID, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.ConsoleLogRepository.AppendLine(ctx, sessionID, line)
}

func TestShutdownKeepsFinalConsoleLine(t *testing.T) {
	logger := logging.NewNopLogger()
	repo := contextCheckingRepository{memory.NewConsoleLogRepository(100)}
	hub := console.NewHub(repo, 16, logger)
	svc := NewExecutionService(memory.NewExecutionRepository(), hub, logger)

	execution, err := svc.Schedule(context.Background(), domain.AlgorithmJohnson, func(ctx context.Context, c primary.Console) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	lines, err := repo.GetLines(context.Background(), execution.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "execution failed: context canceled")
}

func TestGetRecentExecutions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Schedule(ctx, domain.AlgorithmJohnson, func(ctx context.Context, c primary.Console) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
	}

	recent, err := svc.GetRecentExecutions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
