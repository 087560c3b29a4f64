package console

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription is one subscriber's view of a console session. Backlog holds
// the lines published before it subscribed; Lines carries the live ones and
// is closed by Unsubscribe.
type Subscription struct {
	SessionID uuid.UUID
	Backlog   []string

	lines   chan string
	dropped atomic.Uint64
}

func newSubscription(sessionID uuid.UUID, backlog []string, size int) *Subscription {
	return &Subscription{
		SessionID: sessionID,
		Backlog:   backlog,
		lines:     make(chan string, size),
	}
}

func (s *Subscription) Lines() <-chan string {
	return s.lines
}

// Dropped counts live lines lost because the subscriber fell behind.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// offer never blocks: a full queue drops the line for this subscriber only.
func (s *Subscription) offer(line string) {
	select {
	case s.lines <- line:
	default:
		s.dropped.Add(1)
	}
}
