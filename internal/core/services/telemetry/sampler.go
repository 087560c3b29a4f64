package telemetry

import (
	"context"
	"time"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/domain"
)

var _ ISampler = (*Sampler)(nil)

// Sampler periodically reads host facts and publishes a fresh snapshot into
// the shared state. A failing metric degrades its field and never stops the
// loop.
type Sampler struct {
	reader   secondary.HostStatsReader
	state    *SharedState
	interval time.Duration
	logger   primary.Logger

	// previous per-core figures, reused when a CPU read fails
	lastUsage []float64
}

func NewSampler(
	reader secondary.HostStatsReader,
	state *SharedState,
	interval time.Duration,
	logger primary.Logger,
) *Sampler {
	return &Sampler{
		reader:   reader,
		state:    state,
		interval: interval,
		logger:   logger,
	}
}

// Interval is the effective sampling cadence: the configured interval, raised
// to the reader's minimum refresh interval.
func (s *Sampler) Interval() time.Duration {
	if min := s.reader.MinimumRefreshInterval(); s.interval < min {
		return min
	}
	return s.interval
}

func (s *Sampler) Start(ctx context.Context) {
	interval := s.Interval()
	s.logger.Info("Telemetry sampler started", "interval", interval)

	// The first cycle runs immediately so readers see updated=true as soon as
	// possible.
	s.SampleOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Telemetry sampler stopped")
			return
		case <-ticker.C:
			s.SampleOnce(ctx)
		}
	}
}

func (s *Sampler) SampleOnce(ctx context.Context) {
	snapshot := s.collect(ctx)
	version := s.state.Store(snapshot)
	s.logger.Debug("Telemetry sampled", "version", version, "cpus", snapshot.CPUCount)
}

func (s *Sampler) collect(ctx context.Context) domain.TelemetrySnapshot {
	snapshot := domain.NewTelemetrySnapshot()
	snapshot.Updated = true

	if systemName, err := s.reader.SystemName(ctx); err != nil {
		s.logger.Warn("Failed to read system name", "error", err)
	} else if systemName != "" {
		snapshot.SystemName = systemName
	}
	if hostName, err := s.reader.HostName(ctx); err != nil {
		s.logger.Warn("Failed to read host name", "error", err)
	} else if hostName != "" {
		snapshot.HostName = hostName
	}

	usage, err := s.reader.CPUUsage(ctx)
	if err != nil {
		s.logger.Warn("Failed to read cpu usage", "error", err)
		usage = s.lastUsage
	} else {
		s.lastUsage = usage
	}
	snapshot.CPUUsage = make([]float64, len(usage))
	copy(snapshot.CPUUsage, usage)
	snapshot.CPUCount = len(snapshot.CPUUsage)

	total, used, err := s.reader.Memory(ctx)
	if err != nil {
		s.logger.Warn("Failed to read memory", "error", err)
		total, used = 0, 0
	}
	if used > total {
		used = total
	}
	snapshot.TotalMemory = total
	snapshot.UsedMemory = used

	return snapshot
}
