package engine

import (
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/domain/rules"
	"github.com/rmoncayo/stellarforge/server/internal/events"
	"github.com/rmoncayo/stellarforge/server/internal/platform/metrics"
)

// Tick advances the simulation to the given instant.
//
// Ordering guarantee: mission-completion resolution happens before the
// elapsed-time accrual, so a mission completing exactly at now
// contributes its reward before this tick's production is applied.
// Elapsed time is clamped to bound catch-up after long absences.
func (e *Engine) Tick(now time.Time) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	nowMillis := now.UnixMilli()
	elapsed := rules.ClampElapsed(nowMillis - e.st.TLast)

	e.resolveMissions(nowMillis)

	// Euler integration: rates already incorporate all multipliers and
	// do not change mid-interval.
	dt := float64(elapsed) / 1000.0
	e.st.Resources.Energy += e.st.Rates.EPS * dt
	e.st.Resources.Materials += e.st.Rates.MPS * dt
	e.st.Resources.Science += e.st.Rates.SPS * dt

	e.st.TLast = nowMillis

	metrics.Get().RecordTick(time.Since(start))
}

// HeartbeatPayload is attached to the periodic TIME_TICK ledger event.
type HeartbeatPayload struct {
	TLast int64   `json:"t_last"` // Epoch ms of the last processed tick
	EPS   float64 `json:"eps"`
	MPS   float64 `json:"mps"`
	SPS   float64 `json:"sps"`
}

// logHeartbeat appends a TIME_TICK event. The ticker calls this on a
// coarse cadence so the ledger carries the temporal heartbeat without
// recording every driver frame.
func (e *Engine) logHeartbeat(now time.Time) {
	e.mu.Lock()
	payload := HeartbeatPayload{
		TLast: e.st.TLast,
		EPS:   e.st.Rates.EPS,
		MPS:   e.st.Rates.MPS,
		SPS:   e.st.Rates.SPS,
	}
	e.mu.Unlock()

	e.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      events.EventTypeTimeTick,
		Payload:   payload,
	})
}
