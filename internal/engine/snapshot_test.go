package engine

import (
	"testing"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

func TestSnapshotReflectsOwnership(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Resources.Energy = 1000
	eng.st.Generators["solar"] = 2
	eng.st.Upgrades["solarUpgrade1"] = true
	eng.st.Research["unlockMissions"] = true
	eng.st.Ships = []state.Ship{{Type: "scout"}, {Type: "scout"}, {Type: "miner"}}
	eng.st.Missions = []state.ActiveMission{{Type: "explore", EndTime: fc.T.UnixMilli() + 45000}}

	snap := eng.Snapshot()

	var solar *GeneratorView
	for i := range snap.Generators {
		if snap.Generators[i].ID == "solar" {
			solar = &snap.Generators[i]
		}
	}
	if solar == nil {
		t.Fatalf("Snapshot missing solar generator")
	}
	if solar.Level != 2 {
		t.Errorf("Expected solar level 2, got %d", solar.Level)
	}
	// Next cost is for level 3: 10 * 1.15^2.
	if solar.NextCost <= 13.2 || solar.NextCost >= 13.3 {
		t.Errorf("Expected next cost around 13.22, got %f", solar.NextCost)
	}

	if snap.Ships["scout"] != 2 || snap.Ships["miner"] != 1 {
		t.Errorf("Ship counts wrong: %+v", snap.Ships)
	}
	if len(snap.Missions) != 1 || snap.Missions[0].RemainingMS != 45000 {
		t.Errorf("Mission view wrong: %+v", snap.Missions)
	}
	if !snap.Features.Missions || snap.Features.Colonies {
		t.Errorf("Feature flags wrong: %+v", snap.Features)
	}
	if snap.PrestigePoints != 3 {
		t.Errorf("Expected 3 prestige points at 1000 energy, got %d", snap.PrestigePoints)
	}
}

func TestSnapshotMarksLockedGenerators(t *testing.T) {
	eng, _ := newTestEngine(t)

	snap := eng.Snapshot()
	unlocked := map[string]bool{}
	for _, g := range snap.Generators {
		unlocked[g.ID] = g.Unlocked
	}
	if !unlocked["solar"] || !unlocked["lab"] {
		t.Errorf("Base generators should start unlocked: %+v", unlocked)
	}
	if unlocked["geothermal"] || unlocked["fusion"] {
		t.Errorf("Research-gated generators should start locked: %+v", unlocked)
	}
}

func TestSnapshotMissionRemainingNeverNegative(t *testing.T) {
	eng, fc := newTestEngine(t)
	eng.st.Missions = []state.ActiveMission{{Type: "explore", EndTime: fc.T.UnixMilli() - 1000}}

	snap := eng.Snapshot()
	if snap.Missions[0].RemainingMS != 0 {
		t.Errorf("Expected clamped remaining time, got %d", snap.Missions[0].RemainingMS)
	}
}

func TestNowFollowsEngineClock(t *testing.T) {
	eng, fc := newTestEngine(t)

	fc.T = fc.T.Add(90 * time.Minute)
	if got := eng.Now(); !got.Equal(fc.T) {
		t.Errorf("Expected engine time %v, got %v", fc.T, got)
	}
}
