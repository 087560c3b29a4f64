package hoststats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReaderAgainstLocalHost reads the real host. Values vary, so only the
// shape of the results is checked.
func TestReaderAgainstLocalHost(t *testing.T) {
	r := NewReader()
	ctx := context.Background()

	hostName, err := r.HostName(ctx)
	require.NoError(t, err)
	expected, _ := os.Hostname()
	assert.Equal(t, expected, hostName)

	if systemName, err := r.SystemName(ctx); err == nil {
		assert.NotEmpty(t, systemName)
	} else {
		t.Logf("platform information unavailable on this platform: %v", err)
	}

	if total, used, err := r.Memory(ctx); err == nil {
		assert.LessOrEqual(t, used, total)
	} else {
		t.Logf("memory unavailable on this platform: %v", err)
	}

	// prime the delta, then read again after the minimum interval
	_, _ = r.CPUUsage(ctx)
	time.Sleep(r.MinimumRefreshInterval())
	usage, err := r.CPUUsage(ctx)
	if err != nil {
		t.Skipf("cpu usage unavailable on this platform: %v", err)
	}
	for _, pct := range usage {
		assert.GreaterOrEqual(t, pct, 0.0)
		assert.LessOrEqual(t, pct, 100.0)
	}
}

func TestMinimumRefreshInterval(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, NewReader().MinimumRefreshInterval())
}
