package algorithm

import (
	"context"

	"gitlab.com/sysalgs.net/internal/domain"
)

// IAlgorithmService answers algorithm requests
type IAlgorithmService interface {
	// HandleRequest decodes a raw request envelope and dispatches it. It
	// never fails: protocol errors become an Error response.
	HandleRequest(ctx context.Context, body []byte) domain.AlgorithmResponse

	// Dispatch routes an already decoded request
	Dispatch(ctx context.Context, request domain.AlgorithmRequest) domain.AlgorithmResponse

	// Descriptors lists every registered algorithm in registration order
	Descriptors() []domain.AlgorithmDescriptor
}
