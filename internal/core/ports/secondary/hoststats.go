package secondary

import (
	"context"
	"time"
)

// HostStatsReader reads raw host facts. Every method may fail independently;
// callers degrade the affected field instead of aborting.
type HostStatsReader interface {
	// SystemName returns the operating system name.
	SystemName(ctx context.Context) (string, error)

	// HostName returns the network host name.
	HostName(ctx context.Context) (string, error)

	// CPUUsage returns the utilisation percentage of each core since the
	// previous call.
	CPUUsage(ctx context.Context) ([]float64, error)

	// Memory returns total and used memory in bytes.
	Memory(ctx context.Context) (total uint64, used uint64, err error)

	// MinimumRefreshInterval is the shortest interval between CPUUsage calls
	// that still yields meaningfully different figures.
	MinimumRefreshInterval() time.Duration
}
