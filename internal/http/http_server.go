package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/algorithm"
	"gitlab.com/sysalgs.net/internal/core/services/execution"
	"gitlab.com/sysalgs.net/internal/core/services/telemetry"
	"gitlab.com/sysalgs.net/internal/handlers"
	"gitlab.com/sysalgs.net/internal/handlers/algorithms"
	telemetryhdl "gitlab.com/sysalgs.net/internal/handlers/telemetry"
	"gitlab.com/sysalgs.net/internal/ws"
)

type ServiceProvider struct {
	telemetryService telemetry.ITelemetryService
	algorithmService algorithm.IAlgorithmService
	executionService execution.IExecutionService
}

func NewServiceProvider(
	telemetryService telemetry.ITelemetryService,
	algorithmService algorithm.IAlgorithmService,
	executionService execution.IExecutionService,
) *ServiceProvider {
	return &ServiceProvider{
		telemetryService: telemetryService,
		algorithmService: algorithmService,
		executionService: executionService,
	}
}

type Server struct {
	router          *mux.Router
	handler         http.Handler
	srv             *http.Server
	listener        net.Listener
	Port            int
	ServiceName     string
	MaxRequestBytes int64
	ServiceProvider ServiceProvider
	middleware      *handlers.MiddlewareProvider
	wsServer        *ws.Server
	logger          primary.Logger
}

func NewServer(
	port int,
	serviceName string,
	maxRequestBytes int64,
	serviceProvider ServiceProvider,
	middleware *handlers.MiddlewareProvider,
	wsServer *ws.Server,
	logger primary.Logger,
) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		MaxRequestBytes: maxRequestBytes,
		ServiceProvider: serviceProvider,
		middleware:      middleware,
		wsServer:        wsServer,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	telemetryhdl.
		NewTelemetryHandler(s.ServiceProvider.telemetryService, s.wsServer.ServeTelemetry, s.logger).
		RegisterRoutes(r)
	algorithms.
		NewAlgorithmHandler(
			s.ServiceProvider.algorithmService,
			s.ServiceProvider.executionService,
			s.wsServer.ServeConsole,
			s.MaxRequestBytes,
			s.logger,
		).
		RegisterRoutes(r, s.middleware)
	s.router = r
	s.handler = s.middleware.CORSMiddleware(r)
	return nil
}

// Handler returns the routed handler, CORS included. Init must run first.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the port and serves in the background. A bind failure is
// returned; it is the only fatal condition of the server.
func (s *Server) Start() error {
	// Set up server. WriteTimeout stays unset: websocket streams are long lived
	// and bound their own writes.
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	s.listener = listener

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "service", s.ServiceName, "addr", listener.Addr().String())
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the websocket streams and drains in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	s.wsServer.Close()
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
