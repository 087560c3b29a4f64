package algorithm

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

var _ IAlgorithmService = (*AlgorithmService)(nil)

// AlgorithmService implements IAlgorithmService on top of a Registry. It
// holds no execution state beyond the immediate accept or reject.
type AlgorithmService struct {
	registry *Registry
	logger   primary.Logger
}

func NewAlgorithmService(registry *Registry, logger primary.Logger) *AlgorithmService {
	return &AlgorithmService{
		registry: registry,
		logger:   logger,
	}
}

func (s *AlgorithmService) HandleRequest(ctx context.Context, body []byte) domain.AlgorithmResponse {
	request, err := ParseEnvelope(body)
	if err != nil {
		s.logger.Warn("Rejected algorithm request", "error", err)
		return domain.ErrorResponse(err.Error())
	}
	return s.Dispatch(ctx, request)
}

func (s *AlgorithmService) Dispatch(ctx context.Context, request domain.AlgorithmRequest) domain.AlgorithmResponse {
	switch req := request.(type) {
	case *domain.ListRequest:
		return s.list(req)
	case *domain.ExecutionRequest:
		return s.execute(ctx, req)
	default:
		return domain.ErrorResponse(fmt.Sprintf("unsupported request %T", request))
	}
}

func (s *AlgorithmService) Descriptors() []domain.AlgorithmDescriptor {
	return s.registry.All()
}

func (s *AlgorithmService) list(req *domain.ListRequest) domain.AlgorithmResponse {
	descriptors := s.registry.All()
	if req.ListType != nil {
		if category, ok := req.ListType.Category(); ok {
			descriptors = s.registry.Filter(category)
		}
	}

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}

	encoded, err := json.Marshal(names)
	if err != nil {
		s.logger.Error("Failed to encode algorithm list", "error", err)
		return domain.ErrorResponse("algorithm list json conversion failed")
	}
	return domain.OkResponse(string(encoded))
}

func (s *AlgorithmService) execute(ctx context.Context, req *domain.ExecutionRequest) domain.AlgorithmResponse {
	entry, ok := s.registry.Lookup(req.Algorithm)
	if !ok {
		s.logger.Warn("Unknown algorithm requested", "algorithm", req.Algorithm)
		return domain.ErrorResponse(fmt.Sprintf("%v: %q", errs.ErrUnknownAlgorithm, req.Algorithm))
	}

	resp := entry.Handler.Execute(ctx, req.Data)
	s.logger.Info("Algorithm executed", "algorithm", req.Algorithm, "status", resp.Status)
	return resp
}
