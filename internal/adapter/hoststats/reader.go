package hoststats

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
)

// MinimumCPURefreshInterval is the shortest interval over which per-core
// utilisation deltas are meaningful on common kernels (jiffies at 100 Hz
// need a few ticks per core to move).
const MinimumCPURefreshInterval = 200 * time.Millisecond

var _ secondary.HostStatsReader = (*Reader)(nil)

// Reader implements HostStatsReader with gopsutil
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// SystemName prefers the distribution name and falls back to the platform
// family, then the kernel type.
func (r *Reader) SystemName(ctx context.Context) (string, error) {
	platform, family, _, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read platform information: %w", err)
	}
	switch {
	case platform != "":
		return platform, nil
	case family != "":
		return family, nil
	default:
		return runtime.GOOS, nil
	}
}

func (r *Reader) HostName(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read host name: %w", err)
	}
	return name, nil
}

// CPUUsage uses a zero interval, so gopsutil compares against the times it
// recorded on the previous call instead of sleeping.
func (r *Reader) CPUUsage(ctx context.Context) ([]float64, error) {
	usage, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	return usage, nil
}

// Memory reports used memory as total minus available, which counts
// reclaimable page cache as free.
func (r *Reader) Memory(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read memory: %w", err)
	}

	used := vm.Used
	if vm.Available > 0 && vm.Available <= vm.Total {
		used = vm.Total - vm.Available
	}
	return vm.Total, used, nil
}

func (r *Reader) MinimumRefreshInterval() time.Duration {
	return MinimumCPURefreshInterval
}
