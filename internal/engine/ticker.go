package engine

import (
	"context"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
)

// HeartbeatEvery is the cadence at which TIME_TICK events reach the
// event ledger; the simulation itself ticks far more often.
const HeartbeatEvery = time.Minute

// Ticker drives the simulation loop on a best-effort cadence. It knows
// nothing about the economy: it only computes "now" from the monotonic
// clock and hands it to the engine. Cancellation is stopping the ticker.
type Ticker struct {
	engine   *Engine
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewTicker creates the simulation loop driver.
func NewTicker(e *Engine, interval time.Duration, log *logger.Logger) *Ticker {
	return &Ticker{
		engine:   e,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Simulation ticker started.")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	lastHeartbeat := time.Now()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually.")
			return
		case now := <-ticker.C:
			t.engine.Tick(now)

			if now.Sub(lastHeartbeat) >= HeartbeatEvery {
				t.engine.logHeartbeat(now)
				lastHeartbeat = now
			}
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
