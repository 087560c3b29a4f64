package telemetry

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/telemetry"
	"gitlab.com/sysalgs.net/internal/handlers/response"
)

// TelemetryHandler serves the host telemetry snapshot
type TelemetryHandler struct {
	telemetryService telemetry.ITelemetryService
	stream           http.HandlerFunc
	logger           primary.Logger
}

// NewTelemetryHandler creates a new telemetry handler. stream serves the
// websocket topic.
func NewTelemetryHandler(telemetryService telemetry.ITelemetryService, stream http.HandlerFunc, logger primary.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryService: telemetryService,
		stream:           stream,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for TelemetryHandler
func (h *TelemetryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cpus", h.GetSnapshot).Methods("GET")
	router.HandleFunc("/api/cpus/ws", h.stream).Methods("GET")
}

// GetSnapshot returns the latest snapshot, even before the first sample
func (h *TelemetryHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, h.telemetryService.Snapshot())
}
