package executionrepository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/sysalgs.net/internal/adapter/logging"
	"gitlab.com/sysalgs.net/internal/domain"
)

func TestRowToDomainHandlesNulls(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	row := executionRow{
		ID:        uuid.New(),
		Algorithm: "johnson",
		Status:    "ACCEPTED",
		CreatedAt: created,
	}

	execution := row.toDomain()
	assert.Equal(t, domain.AlgorithmJohnson, execution.Algorithm)
	assert.Equal(t, domain.ExecutionStatusAccepted, execution.Status)
	assert.Nil(t, execution.StartedAt)
	assert.Nil(t, execution.CompletedAt)

	row.StartedAt = sql.NullTime{Time: created.Add(time.Second), Valid: true}
	execution = row.toDomain()
	require.NotNil(t, execution.StartedAt)
	assert.Equal(t, created.Add(time.Second), *execution.StartedAt)
}

func TestNullTime(t *testing.T) {
	assert.False(t, nullTime(nil).Valid)

	now := time.Now()
	nt := nullTime(&now)
	assert.True(t, nt.Valid)
	assert.Equal(t, now, nt.Time)
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestExecutionRepositoryPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := NewExecutionRepository(db, logging.NewNopLogger())
	require.NoError(t, repo.EnsureSchema(ctx))

	created := time.Now().UTC().Truncate(time.Millisecond)
	execution := &domain.Execution{
		ID:        uuid.New(),
		Algorithm: domain.AlgorithmRucksackPTAS,
		Status:    domain.ExecutionStatusAccepted,
		CreatedAt: created,
	}
	require.NoError(t, repo.SaveExecution(ctx, execution))

	completed := created.Add(time.Second)
	execution.Status = domain.ExecutionStatusCompleted
	execution.Message = "done"
	execution.StartedAt = &created
	execution.CompletedAt = &completed
	require.NoError(t, repo.SaveExecution(ctx, execution))

	got, err := repo.GetExecution(ctx, execution.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.ExecutionStatusCompleted, got.Status)
	assert.Equal(t, "done", got.Message)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completed.Equal(*got.CompletedAt))

	missing, err := repo.GetExecution(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	recent, err := repo.GetRecentExecutions(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)
}
