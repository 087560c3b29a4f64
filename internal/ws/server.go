package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/static/errs"
	"gitlab.com/sysalgs.net/internal/ws/connectionmanager"
	"gitlab.com/sysalgs.net/internal/ws/defs"
	"gitlab.com/sysalgs.net/internal/ws/handlers"
	"gitlab.com/sysalgs.net/internal/ws/publishers"
)

// Server upgrades HTTP requests to websocket subscribers of the telemetry
// and console topics. Every connection runs a pusher and a drainer; either
// one ending closes the connection, which ends the other.
type Server struct {
	upgrader           websocket.Upgrader
	consoleService     console.IConsoleService
	connectionMgr      *connectionmanager.ConnectionManager
	telemetryPublisher *publishers.TelemetryPublisher
	consolePublisher   *publishers.ConsolePublisher
	drainer            *handlers.Drainer
	logger             primary.Logger

	writeTimeout      time.Duration
	telemetryInterval time.Duration
	consoleInterval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithWriteTimeout bounds every push
func WithWriteTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.writeTimeout = timeout
	}
}

// WithTelemetryInterval sets the telemetry push cadence
func WithTelemetryInterval(interval time.Duration) ServerOption {
	return func(s *Server) {
		s.telemetryInterval = interval
	}
}

// WithConsoleInterval sets the console flush cadence
func WithConsoleInterval(interval time.Duration) ServerOption {
	return func(s *Server) {
		s.consoleInterval = interval
	}
}

// NewServer creates a new websocket server
func NewServer(
	state publishers.SnapshotSource,
	consoleService console.IConsoleService,
	logger primary.Logger,
	options ...ServerOption,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  defs.ReadBufferSize,
			WriteBufferSize: defs.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		consoleService:    consoleService,
		logger:            logger,
		writeTimeout:      defs.DefaultWriteTimeout,
		telemetryInterval: defs.DefaultTelemetryInterval,
		consoleInterval:   defs.DefaultConsoleInterval,
		ctx:               ctx,
		cancel:            cancel,
	}

	// Apply options
	for _, option := range options {
		option(server)
	}

	server.connectionMgr = connectionmanager.NewConnectionManager(server.writeTimeout, logger)
	server.telemetryPublisher = publishers.NewTelemetryPublisher(state, server.telemetryInterval, logger)
	server.consolePublisher = publishers.NewConsolePublisher(server.consoleInterval, logger)
	server.drainer = &handlers.Drainer{Logger: logger}

	return server
}

// ServeTelemetry streams the shared telemetry snapshot to the client.
func (s *Server) ServeTelemetry(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, defs.TopicTelemetry, s.telemetryPublisher.Run)
}

// ServeConsole streams console lines. With ?session=<id> the client follows
// one execution, backlog first; without it, the global console.
func (s *Server) ServeConsole(w http.ResponseWriter, r *http.Request) {
	sessionID, parseErr := parseSession(r.URL.Query().Get("session"))

	s.serve(w, r, defs.TopicConsole, func(ctx context.Context, conn *connectionmanager.Connection) error {
		if parseErr != nil {
			connectionmanager.SendErrorMessage(conn, parseErr.Error())
			return parseErr
		}

		sub, err := s.consoleService.Subscribe(ctx, sessionID)
		if err != nil {
			if errors.Is(err, errs.ErrUnknownSession) {
				connectionmanager.SendErrorMessage(conn, fmt.Sprintf("%v: %s", err, sessionID))
			} else {
				connectionmanager.SendErrorMessage(conn, "console unavailable")
			}
			return err
		}
		defer s.consoleService.Unsubscribe(sub)

		return s.consolePublisher.Run(ctx, conn, sub)
	})
}

// Connections returns the number of open connections on a topic.
func (s *Server) Connections(topic defs.Topic) int {
	return s.connectionMgr.Count(topic)
}

// Close stops every pusher and closes all open connections.
func (s *Server) Close() {
	s.cancel()
	s.connectionMgr.CloseAll()
}

func (s *Server) serve(
	w http.ResponseWriter,
	r *http.Request,
	topic defs.Topic,
	push func(ctx context.Context, conn *connectionmanager.Connection) error,
) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered with an HTTP error
		s.logger.Warn(topic.Prefix()+" upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn := s.connectionMgr.Register(topic, wsConn)
	s.logger.Info(topic.Prefix()+" connection opened", "connection", conn.Number, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(s.ctx)
	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		if err := push(ctx, conn); err != nil {
			s.logger.Debug(topic.Prefix()+" pusher stopped", "connection", conn.Number, "error", err)
		}
		_ = conn.Close()
	}()

	if err := s.drainer.Handle(conn); err != nil {
		s.logger.Debug(topic.Prefix()+" drainer stopped", "connection", conn.Number, "error", err)
	}
	cancel()
	<-pushed

	s.connectionMgr.Remove(conn)
	s.logger.Info(topic.Prefix()+" connection closed", "connection", conn.Number)
}

func parseSession(raw string) (uuid.UUID, error) {
	if raw == "" {
		return console.GlobalSession, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid console session %q", raw)
	}
	return id, nil
}
