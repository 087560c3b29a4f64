package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

const timestampLayout = "2006-01-02 15:04:05"

var _ IConsoleService = (*Hub)(nil)

// Hub implements IConsoleService. Publishing and subscribing to one session
// are serialized by that session's lock, so a subscriber sees every line
// exactly once: either in its backlog or on its live channel. The hub lock
// guards only the subscriber sets and is never held across store calls.
type Hub struct {
	mu           sync.Mutex
	subscribers  map[uuid.UUID]map[*Subscription]struct{}
	sessionLocks map[uuid.UUID]*sessionLock
	logRepo      secondary.ConsoleLogRepository
	bufferSize   int
	now          func() time.Time
	logger       primary.Logger

	lastPublish time.Time
}

func NewHub(logRepo secondary.ConsoleLogRepository, bufferSize int, logger primary.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Hub{
		subscribers:  make(map[uuid.UUID]map[*Subscription]struct{}),
		sessionLocks: make(map[uuid.UUID]*sessionLock),
		logRepo:      logRepo,
		bufferSize:   bufferSize,
		now:          time.Now,
		logger:       logger,
	}
}

func (h *Hub) OpenSession(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == GlobalSession {
		return nil
	}
	if err := h.logRepo.Open(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to open console session: %w", err)
	}
	return nil
}

func (h *Hub) Publish(ctx context.Context, sessionID uuid.UUID, text string) {
	stamp := h.now().Format(timestampLayout)
	line := fmt.Sprintf("[%s] %s", stamp, text)

	if sessionID == GlobalSession {
		h.mu.Lock()
		h.lastPublish = h.now()
		h.offerLocked(GlobalSession, line)
		h.mu.Unlock()
		return
	}

	unlock := h.lockSession(sessionID)
	defer unlock()

	if err := h.logRepo.AppendLine(ctx, sessionID, line); err != nil {
		h.logger.Error("Failed to store console line", "session", sessionID, "error", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPublish = h.now()
	h.offerLocked(sessionID, line)
	h.offerLocked(GlobalSession, fmt.Sprintf("[%s] [%s] %s", stamp, shortID(sessionID), text))
}

func (h *Hub) Subscribe(ctx context.Context, sessionID uuid.UUID) (*Subscription, error) {
	var backlog []string
	if sessionID != GlobalSession {
		unlock := h.lockSession(sessionID)
		defer unlock()

		exists, err := h.logRepo.Exists(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up console session: %w", err)
		}
		if !exists {
			return nil, errs.ErrUnknownSession
		}
		backlog, err = h.logRepo.GetLines(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load console backlog: %w", err)
		}
	}

	sub := newSubscription(sessionID, backlog, h.bufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[sessionID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.subscribers[sessionID] = subs
	}
	subs[sub] = struct{}{}
	return sub, nil
}

func (h *Hub) offerLocked(sessionID uuid.UUID, line string) {
	for sub := range h.subscribers[sessionID] {
		sub.offer(line)
	}
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lockSession serializes store access and delivery for one session. Lock
// entries live only while someone holds or waits for them.
func (h *Hub) lockSession(sessionID uuid.UUID) (unlock func()) {
	h.mu.Lock()
	l, ok := h.sessionLocks[sessionID]
	if !ok {
		l = &sessionLock{}
		h.sessionLocks[sessionID] = l
	}
	l.refs++
	h.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		h.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.sessionLocks, sessionID)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[sub.SessionID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sub.SessionID)
	}
	close(sub.lines)
}

// SubscriberCount returns the number of live subscriptions on a session.
func (h *Hub) SubscriberCount(sessionID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[sessionID])
}

func (h *Hub) Console(sessionID uuid.UUID) primary.Console {
	return &sessionConsole{hub: h, sessionID: sessionID}
}

// StartHeartbeat publishes a synthetic line on the global console whenever it
// has been idle for a full interval. It blocks until ctx is cancelled.
func (h *Hub) StartHeartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	beat := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			idle := h.now().Sub(h.lastPublish) >= interval
			h.mu.Unlock()
			if idle {
				h.Publish(ctx, GlobalSession, fmt.Sprintf("alg console test %d", beat))
				beat++
			}
		}
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

type sessionConsole struct {
	hub       *Hub
	sessionID uuid.UUID
}

func (c *sessionConsole) SessionID() uuid.UUID {
	return c.sessionID
}

func (c *sessionConsole) Printf(format string, args ...interface{}) {
	c.hub.Publish(context.Background(), c.sessionID, fmt.Sprintf(format, args...))
}
