package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
)

type fakeProber struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *fakeProber) Health(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *fakeProber) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakeProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestMonitorStartsChecking(t *testing.T) {
	m := NewMonitor(&fakeProber{}, time.Second, time.Minute, logger.NewNop())
	require.Equal(t, model.HealthChecking, m.Status())
}

func TestCheckTransitionsStatus(t *testing.T) {
	prober := &fakeProber{}
	m := NewMonitor(prober, time.Second, time.Minute, logger.NewNop())

	require.True(t, m.Check(context.Background()))
	require.Equal(t, model.HealthOnline, m.Status())

	prober.setErr(errors.New("connection refused"))
	require.False(t, m.Check(context.Background()))
	require.Equal(t, model.HealthOffline, m.Status())

	prober.setErr(nil)
	require.True(t, m.Check(context.Background()))
	require.Equal(t, model.HealthOnline, m.Status())
}

func TestCheckNeverPanicsOnProbeFailure(t *testing.T) {
	prober := &fakeProber{err: errors.New("dial tcp: connect: connection refused")}
	m := NewMonitor(prober, time.Second, time.Minute, logger.NewNop())

	require.False(t, m.Check(context.Background()))
	require.Equal(t, model.HealthOffline, m.Status())
}

func TestStartProbesImmediately(t *testing.T) {
	prober := &fakeProber{}
	m := NewMonitor(prober, time.Second, time.Hour, logger.NewNop())

	m.Start(context.Background())
	defer m.Stop()

	require.Eventually(t, func() bool {
		return m.Status() == model.HealthOnline
	}, time.Second, 5*time.Millisecond)
	require.GreaterOrEqual(t, prober.callCount(), 1)
}

func TestStopTerminatesPolling(t *testing.T) {
	prober := &fakeProber{}
	m := NewMonitor(prober, time.Second, 5*time.Millisecond, logger.NewNop())

	m.Start(context.Background())
	require.Eventually(t, func() bool {
		return prober.callCount() >= 2
	}, time.Second, time.Millisecond)

	m.Stop()
	settled := prober.callCount()
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, settled, prober.callCount())
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	m := NewMonitor(&fakeProber{}, time.Second, time.Minute, logger.NewNop())
	m.Stop()
}
