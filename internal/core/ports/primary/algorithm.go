package primary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/domain"
)

// AlgorithmHandler executes one registered algorithm. Quick algorithms answer
// synchronously; long-running ones schedule their work and return at once with
// the console session the progress is published on.
type AlgorithmHandler interface {
	Execute(ctx context.Context, data string) domain.AlgorithmResponse
}

// AlgorithmHandlerFunc adapts a plain function to AlgorithmHandler.
type AlgorithmHandlerFunc func(ctx context.Context, data string) domain.AlgorithmResponse

func (f AlgorithmHandlerFunc) Execute(ctx context.Context, data string) domain.AlgorithmResponse {
	return f(ctx, data)
}

// Console writes progress lines to one console session.
type Console interface {
	SessionID() uuid.UUID
	Printf(format string, args ...interface{})
}
