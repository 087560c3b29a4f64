package algorithm

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/execution"
	"gitlab.com/sysalgs.net/internal/domain"
)

// DefaultEntries is the algorithm table served by the API. Registering a new
// algorithm means adding one entry here.
func DefaultEntries(executions execution.IExecutionService, stepDelay time.Duration) []Entry {
	return []Entry{
		{
			Descriptor: descriptor(domain.AlgorithmDijkstra, "Dijkstra", domain.CategoryGraph),
			Handler:    immediate("Dijkstra"),
		},
		{
			Descriptor: descriptor(domain.AlgorithmJohnson, "Johnson", domain.CategoryGraph),
			Handler: &backgroundHandler{
				id: domain.AlgorithmJohnson, name: "Johnson", executions: executions, stepDelay: stepDelay,
				stages: []string{"adding virtual source", "reweighting edges with Bellman-Ford", "running Dijkstra from every vertex", "restoring original weights"},
			},
		},
		{
			Descriptor: descriptor(domain.AlgorithmPrim, "Prim", domain.CategoryGraph),
			Handler:    immediate("Prim"),
		},
		{
			Descriptor: descriptor(domain.AlgorithmRucksackPTAS, "Rucksack-PTAS", domain.CategoryApproximation),
			Handler: &backgroundHandler{
				id: domain.AlgorithmRucksackPTAS, name: "Rucksack-PTAS", executions: executions, stepDelay: stepDelay,
				stages: []string{"enumerating seed subsets", "completing seeds greedily", "selecting best packing"},
			},
		},
		{
			Descriptor: descriptor(domain.AlgorithmRucksackFPTAS, "Rucksack-FPTAS", domain.CategoryApproximation),
			Handler: &backgroundHandler{
				id: domain.AlgorithmRucksackFPTAS, name: "Rucksack-FPTAS", executions: executions, stepDelay: stepDelay,
				stages: []string{"scaling profits", "dynamic programming over profits", "reconstructing selection"},
			},
		},
	}
}

func descriptor(id domain.AlgorithmID, name string, categories ...domain.Category) domain.AlgorithmDescriptor {
	return domain.AlgorithmDescriptor{ID: id, Name: name, Categories: categories}
}

func immediate(name string) primary.AlgorithmHandler {
	return primary.AlgorithmHandlerFunc(func(ctx context.Context, data string) domain.AlgorithmResponse {
		return domain.OkResponse("algorithm execution request handler " + name)
	})
}

// backgroundHandler schedules its work and answers immediately; progress is
// published on the execution's console session.
type backgroundHandler struct {
	id         domain.AlgorithmID
	name       string
	stages     []string
	stepDelay  time.Duration
	executions execution.IExecutionService
}

func (h *backgroundHandler) Execute(ctx context.Context, data string) domain.AlgorithmResponse {
	scheduled, err := h.executions.Schedule(ctx, h.id, h.task(data))
	if err != nil {
		return domain.ErrorResponse(fmt.Sprintf("algorithm %s could not be scheduled: %v", h.name, err))
	}

	resp := domain.OkResponse(fmt.Sprintf("algorithm execution request handler %s scheduled", h.name))
	resp.ConsoleID = &scheduled.ID
	return resp
}

func (h *backgroundHandler) task(data string) execution.Task {
	return func(ctx context.Context, console primary.Console) (string, error) {
		console.Printf("%s: received %d bytes of input", h.name, len(data))
		for i, stage := range h.stages {
			console.Printf("%s: stage %d/%d %s", h.name, i+1, len(h.stages), stage)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%s interrupted during %s: %w", h.name, stage, ctx.Err())
			case <-time.After(h.stepDelay):
			}
		}
		return fmt.Sprintf("algorithm execution request handler %s finished", h.name), nil
	}
}
