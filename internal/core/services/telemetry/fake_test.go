package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeReader returns scripted host facts and records how often it was read.
type fakeReader struct {
	mu sync.Mutex

	systemName, hostName string
	systemErr, hostErr   error

	usage    []float64
	usageErr error

	total, used uint64
	memErr      error

	minInterval time.Duration
	usageCalls  int
}

func (f *fakeReader) SystemName(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.systemErr != nil {
		return "", f.systemErr
	}
	return f.systemName, nil
}

func (f *fakeReader) HostName(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hostErr != nil {
		return "", f.hostErr
	}
	return f.hostName, nil
}

func (f *fakeReader) CPUUsage(ctx context.Context) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls++
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	out := make([]float64, len(f.usage))
	copy(out, f.usage)
	return out, nil
}

func (f *fakeReader) Memory(ctx context.Context) (uint64, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total, f.used, f.memErr
}

func (f *fakeReader) MinimumRefreshInterval() time.Duration {
	return f.minInterval
}

func (f *fakeReader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usageCalls
}

var errUnreadable = errors.New("unreadable")
