// Package executionrepository stores execution records in PostgreSQL
package executionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS algorithm_executions (
		id           UUID PRIMARY KEY,
		algorithm    TEXT NOT NULL,
		status       TEXT NOT NULL,
		message      TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL,
		started_at   TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS algorithm_executions_created_at_idx
		ON algorithm_executions (created_at DESC);
`

var _ secondary.ExecutionRepository = (*ExecutionRepository)(nil)

// ExecutionRepository implements the ExecutionRepository interface with PostgreSQL
type ExecutionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// executionRow mirrors a table row; nullable columns go through sql.Null types
type executionRow struct {
	ID          uuid.UUID    `db:"id"`
	Algorithm   string       `db:"algorithm"`
	Status      string       `db:"status"`
	Message     string       `db:"message"`
	CreatedAt   time.Time    `db:"created_at"`
	StartedAt   sql.NullTime `db:"started_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

func (r executionRow) toDomain() *domain.Execution {
	execution := &domain.Execution{
		ID:        r.ID,
		Algorithm: domain.AlgorithmID(r.Algorithm),
		Status:    domain.ExecutionStatus(r.Status),
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}

	// Handle nullable fields
	if r.StartedAt.Valid {
		startedAt := r.StartedAt.Time
		execution.StartedAt = &startedAt
	}
	if r.CompletedAt.Valid {
		completedAt := r.CompletedAt.Time
		execution.CompletedAt = &completedAt
	}
	return execution
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// NewExecutionRepository creates a new PostgreSQL execution repository
func NewExecutionRepository(db *sqlx.DB, logger primary.Logger) *ExecutionRepository {
	return &ExecutionRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the executions table when it is missing
func (r *ExecutionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		r.logger.Error("Failed to create executions schema", "error", err)
		return fmt.Errorf("failed to create executions schema: %w", err)
	}
	return nil
}

// SaveExecution upserts an execution record
func (r *ExecutionRepository) SaveExecution(ctx context.Context, execution *domain.Execution) error {
	query := `
		INSERT INTO algorithm_executions (
			id, algorithm, status, message, created_at, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			message = EXCLUDED.message,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		execution.ID,
		string(execution.Algorithm),
		string(execution.Status),
		execution.Message,
		execution.CreatedAt,
		nullTime(execution.StartedAt),
		nullTime(execution.CompletedAt),
	)
	if err != nil {
		r.logger.Error("Failed to save execution", "executionId", execution.ID, "error", err)
		return fmt.Errorf("failed to save execution: %w", err)
	}

	return nil
}

// GetExecution retrieves an execution by ID, nil when it does not exist
func (r *ExecutionRepository) GetExecution(ctx context.Context, executionID uuid.UUID) (*domain.Execution, error) {
	query := `
		SELECT id, algorithm, status, message, created_at, started_at, completed_at
		FROM algorithm_executions
		WHERE id = $1
	`

	var row executionRow
	if err := r.db.GetContext(ctx, &row, query, executionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get execution", "executionId", executionID, "error", err)
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}

	return row.toDomain(), nil
}

// GetRecentExecutions retrieves the newest executions first
func (r *ExecutionRepository) GetRecentExecutions(ctx context.Context, limit int) ([]*domain.Execution, error) {
	query := `
		SELECT id, algorithm, status, message, created_at, started_at, completed_at
		FROM algorithm_executions
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []executionRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		r.logger.Error("Failed to get recent executions", "error", err)
		return nil, fmt.Errorf("failed to get recent executions: %w", err)
	}

	executions := make([]*domain.Execution, 0, len(rows))
	for _, row := range rows {
		executions = append(executions, row.toDomain())
	}
	return executions, nil
}
