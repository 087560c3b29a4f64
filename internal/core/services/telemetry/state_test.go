package telemetry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/sysalgs.net/internal/domain"
)

func TestNewSharedStateIsNotUpdated(t *testing.T) {
	state := NewSharedState()

	snapshot, version := state.Load()
	assert.False(t, snapshot.Updated)
	assert.Equal(t, uint64(0), version)
	assert.Equal(t, domain.UnknownHostValue, snapshot.HostName)
	assert.Empty(t, snapshot.CPUUsage)
}

func TestStoreReplacesWholeSnapshot(t *testing.T) {
	state := NewSharedState()

	v1 := state.Store(domain.TelemetrySnapshot{HostName: "a", CPUCount: 2, CPUUsage: []float64{1, 2}, Updated: true})
	v2 := state.Store(domain.TelemetrySnapshot{HostName: "b", CPUCount: 1, CPUUsage: []float64{3}, Updated: true})

	assert.Equal(t, uint64(1), v1)
	assert.Equal(t, uint64(2), v2)

	snapshot := state.Snapshot()
	assert.Equal(t, "b", snapshot.HostName)
	assert.Equal(t, []float64{3}, snapshot.CPUUsage)
	assert.Equal(t, uint64(2), state.Version())
}

func TestSnapshotCopiesAreIsolated(t *testing.T) {
	state := NewSharedState()
	usage := []float64{10, 20}
	state.Store(domain.TelemetrySnapshot{CPUCount: 2, CPUUsage: usage, Updated: true})

	// mutating the caller's slice after Store must not leak into the state
	usage[0] = 99
	first := state.Snapshot()
	require.Equal(t, 10.0, first.CPUUsage[0])

	// mutating a reader's copy must not leak either
	first.CPUUsage[1] = 77
	assert.Equal(t, 20.0, state.Snapshot().CPUUsage[1])
}

func TestConcurrentReadersNeverSeeTornSnapshots(t *testing.T) {
	state := NewSharedState()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			usage := make([]float64, i%8+1)
			state.Store(domain.TelemetrySnapshot{CPUCount: len(usage), CPUUsage: usage, Updated: true})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for i := 0; i < 500; i++ {
				snapshot, version := state.Load()
				assert.Equal(t, snapshot.CPUCount, len(snapshot.CPUUsage))
				assert.GreaterOrEqual(t, version, last)
				last = version
			}
		}()
	}
	wg.Wait()
}
