package telemetry

import (
	"context"

	"gitlab.com/sysalgs.net/internal/domain"
)

// ITelemetryService exposes the latest telemetry snapshot to readers
type ITelemetryService interface {
	// Snapshot returns a private copy of the most recent complete snapshot
	Snapshot() domain.TelemetrySnapshot

	// Version returns how many snapshots have been stored so far
	Version() uint64
}

// ISampler owns the single writer of the shared state
type ISampler interface {
	// Start runs the sampling loop until ctx is cancelled
	Start(ctx context.Context)

	// SampleOnce performs one sampling cycle
	SampleOnce(ctx context.Context)
}
