// Package engine contains the simulation core: the economy, the temporal
// simulator and the prestige transformation, orchestrated over a single
// state aggregate.
//
// ARCHITECTURAL RULE: the aggregate is owned exclusively by the Engine
// and guarded by one mutex. Every command executes synchronously to
// completion; a rejected command is a no-op and leaves state untouched.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
	"github.com/rmoncayo/stellarforge/server/internal/clock"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/events"
	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
	"github.com/rmoncayo/stellarforge/server/internal/platform/metrics"
)

// SnapshotPersister stores and retrieves the single durable save slot.
// The implementation lives in infra/storage; the engine only sees this.
type SnapshotPersister interface {
	// Save durably stores the full state.
	Save(st *state.State) error

	// Load retrieves the stored state. A nil state with nil error means
	// no save exists; malformed data yields state.ErrCorruptSave.
	Load() (*state.State, error)
}

// Engine is the central orchestrator owning the game-state aggregate.
type Engine struct {
	mu sync.Mutex

	cat       *catalog.Catalog
	st        *state.State
	eventLog  *events.EventLog
	logger    *logger.Logger
	persister SnapshotPersister
	clock     clock.Clock
}

// NewEngine initializes the simulation with a fresh default state.
func NewEngine(cat *catalog.Catalog, eventLog *events.EventLog, persister SnapshotPersister, log *logger.Logger) *Engine {
	clk := clock.RealClock{}
	return &Engine{
		cat:       cat,
		st:        state.New(clk.Now().UnixMilli()),
		eventLog:  eventLog,
		logger:    log,
		persister: persister,
		clock:     clk,
	}
}

// SetClock overrides the engine clock. Intended for tests.
func (e *Engine) SetClock(c clock.Clock) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = c
	e.st.TLast = c.Now().UnixMilli()
}

// Catalog exposes the static data the engine runs on.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// EventLog exposes the audit log for the network layer.
func (e *Engine) EventLog() *events.EventLog {
	return e.eventLog
}

// Load restores the durable save slot, if any. A corrupt save degrades
// to the default initial state and never crashes the host. Must be
// called once at startup, before the first tick.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.persister == nil {
		e.recomputeRates()
		return nil
	}

	loaded, err := e.persister.Load()
	if err != nil {
		e.logger.Warn("Save slot unreadable, starting fresh: " + err.Error())
		e.st = state.New(e.clock.Now().UnixMilli())
		e.recomputeRates()
		return nil
	}
	if loaded == nil {
		e.logger.Info("No save found, starting a new session.")
		e.recomputeRates()
		return nil
	}

	e.st = loaded
	e.recomputeRates()
	e.appendEvent(events.EventTypeStateLoaded, "", nil)
	e.logger.Info("Session restored from save slot.")
	return nil
}

// Save durably stores the current state. Invoked on the autosave cadence,
// on demand, and at shutdown.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.persister == nil {
		return nil
	}

	start := time.Now()
	err := e.persister.Save(e.st)
	metrics.Get().RecordSave(time.Since(start), err)
	if err != nil {
		e.logger.Error("Failed to persist state: " + err.Error())
		return err
	}
	e.appendEvent(events.EventTypeStateSaved, "", nil)
	return nil
}

// SetNotation switches the display notation preference. Cosmetic only.
func (e *Engine) SetNotation(mode string) error {
	if mode != "compact" && mode != "scientific" {
		return fmt.Errorf("unknown notation mode %q", mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.Settings.Notation = mode
	return nil
}

// appendEvent records an accepted action. Caller must hold e.mu.
func (e *Engine) appendEvent(t events.EventType, subjectID string, payload interface{}) {
	e.eventLog.Append(events.GameEvent{
		Timestamp: e.clock.Now(),
		Type:      t,
		SubjectID: subjectID,
		Payload:   payload,
	})
}

// reject records a refused command and returns its reason unchanged.
func (e *Engine) reject(err error) error {
	metrics.Get().RecordCommand(false)
	return err
}

// accept records a successful command.
func (e *Engine) accept() {
	metrics.Get().RecordCommand(true)
}
