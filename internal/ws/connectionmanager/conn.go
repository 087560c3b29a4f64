package connectionmanager

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/ws/defs"
)

// Connection is one accepted websocket subscriber on a topic.
type Connection struct {
	Topic  defs.Topic
	Number uint64
	Conn   *websocket.Conn

	writeTimeout time.Duration
	writeMu      sync.Mutex
	closeOnce    sync.Once
	closeErr     error
}

// WriteText sends one text frame, bounded by the write timeout.
func (c *Connection) WriteText(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Close sends a close frame when the peer can still take one and releases
// the underlying connection. Only the first call has an effect.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.closeErr = c.Conn.Close()
	})
	return c.closeErr
}

// ConnectionManager tracks open websocket connections and numbers them per
// topic.
type ConnectionManager struct {
	Connections  map[*Connection]struct{}
	ConnMutex    sync.RWMutex
	counters     map[defs.Topic]*atomic.Uint64
	writeTimeout time.Duration
	Logger       primary.Logger
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(writeTimeout time.Duration, logger primary.Logger) *ConnectionManager {
	if writeTimeout <= 0 {
		writeTimeout = defs.DefaultWriteTimeout
	}
	return &ConnectionManager{
		Connections: make(map[*Connection]struct{}),
		counters: map[defs.Topic]*atomic.Uint64{
			defs.TopicTelemetry: new(atomic.Uint64),
			defs.TopicConsole:   new(atomic.Uint64),
		},
		writeTimeout: writeTimeout,
		Logger:       logger,
	}
}

// Register numbers conn within its topic and starts tracking it. Topics are
// fixed at construction; an unknown topic is a programming error and panics.
func (cm *ConnectionManager) Register(topic defs.Topic, conn *websocket.Conn) *Connection {
	counter, ok := cm.counters[topic]
	if !ok {
		panic(fmt.Sprintf("connectionmanager: unknown topic %q", topic))
	}

	c := &Connection{
		Topic:        topic,
		Number:       counter.Add(1),
		Conn:         conn,
		writeTimeout: cm.writeTimeout,
	}

	cm.ConnMutex.Lock()
	cm.Connections[c] = struct{}{}
	cm.ConnMutex.Unlock()
	return c
}

// Remove stops tracking a connection once both of its loops have ended
func (cm *ConnectionManager) Remove(c *Connection) {
	cm.ConnMutex.Lock()
	delete(cm.Connections, c)
	cm.ConnMutex.Unlock()
}

// Count returns the number of open connections on a topic.
func (cm *ConnectionManager) Count(topic defs.Topic) int {
	cm.ConnMutex.RLock()
	defer cm.ConnMutex.RUnlock()

	n := 0
	for c := range cm.Connections {
		if c.Topic == topic {
			n++
		}
	}
	return n
}

// CloseAll closes every tracked connection. Their loops unwind on their own.
func (cm *ConnectionManager) CloseAll() {
	cm.ConnMutex.RLock()
	open := make([]*Connection, 0, len(cm.Connections))
	for c := range cm.Connections {
		open = append(open, c)
	}
	cm.ConnMutex.RUnlock()

	for _, c := range open {
		if err := c.Close(); err != nil {
			cm.Logger.Debug("Failed to close connection", "topic", c.Topic, "connection", c.Number, "error", err)
		}
	}
}

// SendErrorMessage pushes a single diagnostic line to a subscriber
func SendErrorMessage(c *Connection, message string) {
	// Ignore errors here as the connection might be closing
	_ = c.WriteText([]byte("error: " + message))
}
