package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus represents the lifecycle state of a scheduled execution
type ExecutionStatus string

const (
	ExecutionStatusAccepted  ExecutionStatus = "ACCEPTED"
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusCompleted ExecutionStatus = "COMPLETED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
)

// Execution is the record of a long-running algorithm execution. Its ID is
// also the console session its progress is published on.
type Execution struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Algorithm   AlgorithmID     `db:"algorithm" json:"algorithm"`
	Status      ExecutionStatus `db:"status" json:"status"`
	Message     string          `db:"message" json:"message"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	StartedAt   *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

// Finished reports whether the execution reached a terminal state.
func (e *Execution) Finished() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusFailed
}
