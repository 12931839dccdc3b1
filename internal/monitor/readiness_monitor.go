package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/metrics"
	"github.com/axellelanca/adtracker/internal/readiness"
)

// ReadinessMonitor periodically checks the readiness artifact and reports state changes.
// It only observes: the per-request gate stays authoritative.
type ReadinessMonitor struct {
	gate     *readiness.Gate
	interval time.Duration
	known    bool // false until the first check
	ready    bool
	mu       sync.Mutex
}

// NewReadinessMonitor creates a monitor that checks gate every interval.
func NewReadinessMonitor(gate *readiness.Gate, interval time.Duration) *ReadinessMonitor {
	return &ReadinessMonitor{gate: gate, interval: interval}
}

// Start runs the monitoring loop until ctx is cancelled.
func (m *ReadinessMonitor) Start(ctx context.Context) {
	logger.Log.Info("[MONITOR] starting readiness monitor",
		zap.String("proof", m.gate.Path()),
		zap.Duration("interval", m.interval))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Vérification immédiate au démarrage
	m.check()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("[MONITOR] readiness monitor stopped")
			return
		case <-ticker.C:
			m.check()
		}
	}
}

// check compares the current state with the previous one and logs transitions.
// It returns true when the state changed.
func (m *ReadinessMonitor) check() bool {
	current := m.gate.Ready()
	if current {
		metrics.Ready.Set(1)
	} else {
		metrics.Ready.Set(0)
	}

	m.mu.Lock()
	previous, known := m.ready, m.known
	m.ready, m.known = current, true
	m.mu.Unlock()

	if !known {
		logger.Log.Info("[MONITOR] initial readiness state", zap.String("state", formatState(current)))
		return false
	}
	if current == previous {
		return false
	}

	if current {
		logger.Log.Info("[NOTIFICATION] proof changed state",
			zap.String("from", formatState(previous)), zap.String("to", formatState(current)))
	} else {
		logger.Log.Warn("[NOTIFICATION] proof changed state",
			zap.String("from", formatState(previous)), zap.String("to", formatState(current)))
	}
	return true
}

// Ready returns the last observed state.
func (m *ReadinessMonitor) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func formatState(ready bool) string {
	if ready {
		return "READY"
	}
	return "NOT READY"
}
