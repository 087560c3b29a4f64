package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
)

const defaultMaxSessions = 1000

var _ secondary.ConsoleLogRepository = (*ConsoleLogRepository)(nil)

// ConsoleLogRepository keeps console backlogs in process memory. Each session
// keeps its newest maxLines lines; the oldest sessions are evicted beyond
// maxSessions. Lines for sessions that were never opened, or were evicted,
// are discarded.
type ConsoleLogRepository struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID][]string
	order       []uuid.UUID
	maxLines    int
	maxSessions int
}

func NewConsoleLogRepository(maxLines int) *ConsoleLogRepository {
	return &ConsoleLogRepository{
		sessions:    make(map[uuid.UUID][]string),
		maxLines:    maxLines,
		maxSessions: defaultMaxSessions,
	}
}

func (r *ConsoleLogRepository) Open(ctx context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openLocked(sessionID)
	return nil
}

func (r *ConsoleLogRepository) openLocked(sessionID uuid.UUID) {
	if _, ok := r.sessions[sessionID]; ok {
		return
	}
	r.sessions[sessionID] = []string{}
	r.order = append(r.order, sessionID)
	for len(r.order) > r.maxSessions {
		delete(r.sessions, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *ConsoleLogRepository) AppendLine(ctx context.Context, sessionID uuid.UUID, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	lines = append(lines, line)
	if r.maxLines > 0 && len(lines) > r.maxLines {
		lines = lines[len(lines)-r.maxLines:]
	}
	r.sessions[sessionID] = lines
	return nil
}

func (r *ConsoleLogRepository) GetLines(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := r.sessions[sessionID]
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *ConsoleLogRepository) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sessionID]
	return ok, nil
}
