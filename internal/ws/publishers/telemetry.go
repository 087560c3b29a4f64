package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/ws/connectionmanager"
)

// SnapshotSource hands out copies of the latest telemetry snapshot
type SnapshotSource interface {
	Load() (domain.TelemetrySnapshot, uint64)
}

// TelemetryPublisher pushes the current snapshot to one connection on a fixed
// cadence, whether or not it changed since the previous push.
type TelemetryPublisher struct {
	State    SnapshotSource
	Interval time.Duration
	Logger   primary.Logger
}

func NewTelemetryPublisher(state SnapshotSource, interval time.Duration, logger primary.Logger) *TelemetryPublisher {
	return &TelemetryPublisher{
		State:    state,
		Interval: interval,
		Logger:   logger,
	}
}

// Run pushes until ctx is done or a push fails.
func (p *TelemetryPublisher) Run(ctx context.Context, conn *connectionmanager.Connection) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var lastVersion uint64
	for {
		snapshot, version := p.State.Load()
		if version < lastVersion {
			// the state only moves forward; never push an older snapshot
			return fmt.Errorf("telemetry state went back from version %d to %d", lastVersion, version)
		}
		lastVersion = version

		payload, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal telemetry snapshot: %w", err)
		}
		if err := conn.WriteText(payload); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
