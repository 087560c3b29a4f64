package publishers

import (
	"context"
	"time"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/ws/connectionmanager"
)

// ConsolePublisher forwards one console subscription to a connection. The
// backlog goes out at once; live lines are flushed on every tick.
type ConsolePublisher struct {
	Interval time.Duration
	Logger   primary.Logger
}

func NewConsolePublisher(interval time.Duration, logger primary.Logger) *ConsolePublisher {
	return &ConsolePublisher{
		Interval: interval,
		Logger:   logger,
	}
}

// Run returns nil when ctx is done or the subscription is closed, and the
// write error when a push fails.
func (p *ConsolePublisher) Run(ctx context.Context, conn *connectionmanager.Connection, sub *console.Subscription) error {
	for _, line := range sub.Backlog {
		if err := conn.WriteText([]byte(line)); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var reportedDrops uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if open, err := p.flush(conn, sub); err != nil || !open {
			return err
		}

		if dropped := sub.Dropped(); dropped != reportedDrops {
			p.Logger.Warn("Console subscriber fell behind", "connection", conn.Number, "session", sub.SessionID, "dropped", dropped)
			reportedDrops = dropped
		}
	}
}

// flush writes every queued line without waiting for more.
func (p *ConsolePublisher) flush(conn *connectionmanager.Connection, sub *console.Subscription) (bool, error) {
	for {
		select {
		case line, ok := <-sub.Lines():
			if !ok {
				return false, nil
			}
			if err := conn.WriteText([]byte(line)); err != nil {
				return true, err
			}
		default:
			return true, nil
		}
	}
}
