package telemetry

import (
	"sync"

	"gitlab.com/sysalgs.net/internal/domain"
)

var _ ITelemetryService = (*SharedState)(nil)

// SharedState holds the latest telemetry snapshot. Writers swap in a whole
// snapshot under the write lock; readers copy it out under the read lock and
// do any serialization or I/O after releasing it.
type SharedState struct {
	mu       sync.RWMutex
	snapshot domain.TelemetrySnapshot
	version  uint64
}

// NewSharedState creates the state with the not-yet-updated default snapshot
func NewSharedState() *SharedState {
	return &SharedState{
		snapshot: domain.NewTelemetrySnapshot(),
	}
}

// Store replaces the current snapshot and returns the new version.
func (s *SharedState) Store(snapshot domain.TelemetrySnapshot) uint64 {
	owned := snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = owned
	s.version++
	return s.version
}

func (s *SharedState) Snapshot() domain.TelemetrySnapshot {
	snapshot, _ := s.Load()
	return snapshot
}

// Load returns a copy of the current snapshot together with its version.
func (s *SharedState) Load() (domain.TelemetrySnapshot, uint64) {
	s.mu.RLock()
	snapshot, version := s.snapshot, s.version
	s.mu.RUnlock()

	// Stored slices are never written after Store, so cloning outside the
	// lock still yields a consistent copy.
	return snapshot.Clone(), version
}

func (s *SharedState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
