// Package health tracks the local backend's availability.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/metrics"
)

// Prober issues a single liveness request against the local backend.
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor polls the local backend on a fixed interval and caches the result
// as a ternary status. The gateway reads the cached value; it never probes
// per request, so staleness is bounded by the polling interval.
type Monitor struct {
	prober       Prober
	probeTimeout time.Duration
	interval     time.Duration
	logger       *logger.Logger

	mu     sync.RWMutex
	status model.HealthStatus

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a monitor. It starts in the checking state until the
// first probe completes.
func NewMonitor(prober Prober, probeTimeout, interval time.Duration, log *logger.Logger) *Monitor {
	m := &Monitor{
		prober:       prober,
		probeTimeout: probeTimeout,
		interval:     interval,
		logger:       log,
		status:       model.HealthChecking,
	}
	metrics.SetBackendHealth(-1)
	return m
}

// Status returns the most recent cached reading.
func (m *Monitor) Status() model.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check probes the backend once within the probe timeout and updates the
// cached status. It never returns an error: any failure, non-success status,
// or timeout reads as unavailable.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	err := m.prober.Health(probeCtx)
	m.setStatus(err == nil)
	return err == nil
}

// Start launches the polling loop. An immediate probe runs first so the
// status leaves checking without waiting a full interval.
func (m *Monitor) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)

		m.Check(loopCtx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.Check(loopCtx)
			}
		}
	}()
}

// Stop cancels the polling loop and waits for it to exit.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) setStatus(online bool) {
	next := model.HealthOffline
	gauge := 0.0
	if online {
		next = model.HealthOnline
		gauge = 1.0
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	metrics.SetBackendHealth(gauge)
	if prev != next {
		m.logger.Info("backend health changed",
			zap.String("from", string(prev)),
			zap.String("to", string(next)),
		)
	}
}
