package algorithms

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/algorithm"
	"gitlab.com/sysalgs.net/internal/core/services/execution"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/handlers"
	"gitlab.com/sysalgs.net/internal/handlers/response"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// AlgorithmHandler handles algorithm API requests
type AlgorithmHandler struct {
	algorithmService algorithm.IAlgorithmService
	executionService execution.IExecutionService
	console          http.HandlerFunc
	logger           primary.Logger
	maxRequestBytes  int64

	requests atomic.Uint64
}

// NewAlgorithmHandler creates a new algorithm handler. console serves the
// console websocket topic.
func NewAlgorithmHandler(
	algorithmService algorithm.IAlgorithmService,
	executionService execution.IExecutionService,
	console http.HandlerFunc,
	maxRequestBytes int64,
	logger primary.Logger,
) *AlgorithmHandler {
	return &AlgorithmHandler{
		algorithmService: algorithmService,
		executionService: executionService,
		console:          console,
		maxRequestBytes:  maxRequestBytes,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for AlgorithmHandler
func (h *AlgorithmHandler) RegisterRoutes(router *mux.Router, middleware *handlers.MiddlewareProvider) {
	router.Handle("/api/algorithms", middleware.Protect(http.HandlerFunc(h.HandleRequest))).Methods("POST")
	router.HandleFunc("/api/algorithms", h.GetDescriptors).Methods("GET")
	router.HandleFunc("/api/algorithms/executions", h.GetRecentExecutions).Methods("GET")
	router.HandleFunc("/api/algorithms/executions/{executionId}", h.GetExecution).Methods("GET")
	router.HandleFunc("/api/algorithms/ws/console", h.console).Methods("GET")
}

// Requests returns the number of algorithm requests received so far.
func (h *AlgorithmHandler) Requests() uint64 {
	return h.requests.Load()
}

// HandleRequest answers every envelope with HTTP 200 and a status body
func (h *AlgorithmHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	n := h.requests.Add(1)
	h.logger.Info("Algorithm request received", "request", n, "remote", r.RemoteAddr)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxRequestBytes))
	if err != nil {
		h.logger.Warn("Failed to read request body", "request", n, "error", err)
		handlers.ResponseWithJson(w, http.StatusOK, domain.ErrorResponse(fmt.Sprintf("%v: %v", errs.ErrEnvelopeDecode, err)))
		return
	}

	resp := h.algorithmService.HandleRequest(r.Context(), body)
	handlers.ResponseWithJson(w, http.StatusOK, resp)
}

// GetDescriptors lists the registered algorithms with their categories
func (h *AlgorithmHandler) GetDescriptors(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string][]domain.AlgorithmDescriptor{"algorithms": h.algorithmService.Descriptors()})
}

// GetExecution returns one execution record
func (h *AlgorithmHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	executionIDStr := vars["executionId"]

	executionID, err := uuid.Parse(executionIDStr)
	if err != nil {
		h.logger.Error("Invalid execution ID", "id", executionIDStr)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid execution ID", StatusCode: http.StatusBadRequest})
		return
	}

	record, err := h.executionService.GetExecution(r.Context(), executionID)
	if errors.Is(err, errs.ErrExecutionNotFound) {
		response.WriteError(w, response.ErrorMessage{Message: "Execution not found", StatusCode: http.StatusNotFound})
		return
	}
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get execution", StatusCode: http.StatusInternalServerError})
		return
	}

	response.WriteSuccess(w, record)
}

// GetRecentExecutions returns the newest executions, ?limit bounded
func (h *AlgorithmHandler) GetRecentExecutions(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.WriteError(w, response.ErrorMessage{Message: "Invalid limit", StatusCode: http.StatusBadRequest})
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	executions, err := h.executionService.GetRecentExecutions(r.Context(), limit)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get executions", StatusCode: http.StatusInternalServerError})
		return
	}
	if executions == nil {
		executions = []*domain.Execution{}
	}

	response.WriteSuccess(w, map[string][]*domain.Execution{"executions": executions})
}
