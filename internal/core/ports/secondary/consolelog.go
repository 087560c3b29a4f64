package secondary

import (
	"context"

	"github.com/google/uuid"
)

// ConsoleLogRepository keeps the backlog of a console session so that late
// subscribers can replay it.
type ConsoleLogRepository interface {
	// AppendLine stores a formatted line at the end of the session backlog.
	// Lines for a session that is not open are dropped.
	AppendLine(ctx context.Context, sessionID uuid.UUID, line string) error

	// GetLines returns the session backlog, oldest first
	GetLines(ctx context.Context, sessionID uuid.UUID) ([]string, error)

	// Exists reports whether a session has been opened
	Exists(ctx context.Context, sessionID uuid.UUID) (bool, error)

	// Open registers a new, empty session
	Open(ctx context.Context, sessionID uuid.UUID) error
}
