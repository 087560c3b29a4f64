package handlers

import (
	"errors"

	"github.com/gorilla/websocket"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/ws/connectionmanager"
)

// Drainer reads and discards inbound frames. Neither topic has a command
// protocol; reading only keeps control frames flowing and notices the peer
// going away.
type Drainer struct {
	Logger primary.Logger
}

// Handle blocks until the peer sends a close frame or the connection fails.
// A normal close returns nil.
func (d *Drainer) Handle(conn *connectionmanager.Connection) error {
	for {
		_, data, err := conn.Conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && (closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		d.Logger.Debug(conn.Topic.Prefix()+" ignoring inbound frame", "connection", conn.Number, "bytes", len(data))
	}
}
