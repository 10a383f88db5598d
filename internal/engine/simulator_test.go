package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/domain/rules"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

func TestTickAccruesExactProduction(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Resources.Energy = 0
	eng.st.Generators["solar"] = 1
	eng.recomputeRates()

	fc.T = fc.T.Add(10 * time.Second)
	eng.Tick(fc.T)

	// 1 EPS * 10s = 10 energy.
	if got := eng.st.Resources.Energy; math.Abs(got-10) > 1e-9 {
		t.Errorf("Expected 10 energy after 10s at 1 EPS, got %f", got)
	}
	if eng.st.TLast != fc.T.UnixMilli() {
		t.Errorf("Expected TLast %d, got %d", fc.T.UnixMilli(), eng.st.TLast)
	}
}

func TestTickAtSameInstantIsIdempotent(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Generators["solar"] = 1
	eng.recomputeRates()

	fc.T = fc.T.Add(5 * time.Second)
	eng.Tick(fc.T)
	after := eng.st.Resources.Energy

	eng.Tick(fc.T)
	if eng.st.Resources.Energy != after {
		t.Errorf("Tick at identical instant accrued again: %f -> %f", after, eng.st.Resources.Energy)
	}
}

func TestTickRejectsClockRewind(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Generators["solar"] = 1
	eng.recomputeRates()

	fc.T = fc.T.Add(10 * time.Second)
	eng.Tick(fc.T)
	after := eng.st.Resources.Energy

	// now earlier than TLast: nothing accrues, nothing rewinds.
	eng.Tick(fc.T.Add(-4 * time.Second))
	if eng.st.Resources.Energy != after {
		t.Errorf("Rewound tick changed resources: %f -> %f", after, eng.st.Resources.Energy)
	}
}

func TestTickClampsOfflineCatchUp(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Resources.Energy = 0
	eng.st.Generators["solar"] = 1
	eng.recomputeRates()

	// Two hours away, but accrual is capped at one hour.
	fc.T = fc.T.Add(2 * time.Hour)
	eng.Tick(fc.T)

	want := float64(rules.MaxCatchUpMillis) / 1000.0
	if got := eng.st.Resources.Energy; math.Abs(got-want) > 1e-6 {
		t.Errorf("Expected %f energy from clamped catch-up, got %f", want, got)
	}
}

func TestMissionLifecycle(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Research["unlockMissions"] = true
	eng.st.Ships = []state.Ship{{Type: "scout"}}

	// explore: 60s, rewards 100 materials.
	if err := eng.StartMission("explore"); err != nil {
		t.Fatalf("StartMission failed: %v", err)
	}

	// Ship already committed.
	err := eng.StartMission("explore")
	if !errors.Is(err, state.ErrInsufficientShips) {
		t.Fatalf("Expected ErrInsufficientShips, got %v", err)
	}

	materialsBefore := eng.st.Resources.Materials

	// Halfway: nothing resolves, no prorated payout.
	fc.T = fc.T.Add(30 * time.Second)
	eng.Tick(fc.T)
	if eng.st.Resources.Materials != materialsBefore {
		t.Errorf("Mid-flight mission paid out early: %f", eng.st.Resources.Materials)
	}
	if eng.st.ActiveMissionCount() != 1 {
		t.Fatalf("Mission vanished mid-flight")
	}

	// Past the end time: full reward exactly once.
	fc.T = fc.T.Add(31 * time.Second)
	eng.Tick(fc.T)
	if got := eng.st.Resources.Materials; math.Abs(got-(materialsBefore+100)) > 1e-9 {
		t.Errorf("Expected %f materials after mission, got %f", materialsBefore+100, got)
	}
	if eng.st.ActiveMissionCount() != 0 {
		t.Errorf("Completed mission not removed")
	}

	// The freed ship can fly again.
	if err := eng.StartMission("mine"); err != nil {
		t.Errorf("Expected new mission after completion, got %v", err)
	}
}

func TestMissionResolvesBeforeAccrual(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Research["unlockMissions"] = true
	eng.st.Ships = []state.Ship{{Type: "scout"}}
	eng.st.Resources.Materials = 0

	if err := eng.StartMission("explore"); err != nil {
		t.Fatalf("StartMission failed: %v", err)
	}

	// A tick landing exactly on the end time pays out on that tick.
	fc.T = fc.T.Add(60 * time.Second)
	eng.Tick(fc.T)
	if got := eng.st.Resources.Materials; math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected payout on the exact end-time tick, got %f", got)
	}

	// A second tick must not pay again.
	fc.T = fc.T.Add(time.Second)
	eng.Tick(fc.T)
	if got := eng.st.Resources.Materials; math.Abs(got-100) > 1e-9 {
		t.Errorf("Mission reward paid twice: %f", got)
	}
}

func TestMissionRequiresResearch(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.st.Ships = []state.Ship{{Type: "scout"}}

	err := eng.StartMission("explore")
	if !errors.Is(err, state.ErrLocked) {
		t.Errorf("Expected ErrLocked without unlockMissions, got %v", err)
	}
}

func TestShipCountReservation(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.st.Research["unlockMissions"] = true
	eng.st.Ships = []state.Ship{{Type: "scout"}, {Type: "miner"}}

	if err := eng.StartMission("explore"); err != nil {
		t.Fatalf("First mission failed: %v", err)
	}
	if err := eng.StartMission("mine"); err != nil {
		t.Fatalf("Second mission failed with 2 ships: %v", err)
	}

	err := eng.StartMission("explore")
	if !errors.Is(err, state.ErrInsufficientShips) {
		t.Errorf("Expected ErrInsufficientShips with all ships committed, got %v", err)
	}
}
