package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

func TestAscendRejectedWithoutPoints(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.st.Resources.Energy = 5

	err := eng.Ascend()
	if !errors.Is(err, state.ErrNoPointsAvailable) {
		t.Errorf("Expected ErrNoPointsAvailable at 5 energy, got %v", err)
	}
	if eng.st.Meta.Ascensions != 0 {
		t.Errorf("Rejected ascension incremented the counter")
	}
}

func TestAscendResetsEconomyAndKeepsMeta(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.st.Resources.Energy = 1000
	eng.st.Resources.Materials = 5000
	eng.st.Resources.Science = 300
	eng.st.Generators["solar"] = 12
	eng.st.Upgrades["solarUpgrade1"] = true
	eng.st.Research["unlockGeothermal"] = true
	eng.st.Ships = []state.Ship{{Type: "scout"}}
	eng.st.Colonies["alphaCentauri"] = true
	eng.st.Settings.Notation = "scientific"
	tLastBefore := eng.st.TLast

	if got := eng.PrestigePoints(); got != 3 {
		t.Fatalf("Expected 3 prestige points at 1000 energy, got %d", got)
	}
	if err := eng.Ascend(); err != nil {
		t.Fatalf("Ascend failed: %v", err)
	}

	if eng.st.Meta.Ascensions != 1 || eng.st.Meta.MetaPoints != 3 {
		t.Errorf("Expected meta {1, 3}, got %+v", eng.st.Meta)
	}
	if eng.st.Resources.Energy != 10 || eng.st.Resources.Materials != 100 || eng.st.Resources.Science != 0 {
		t.Errorf("Economy not reset to defaults: %+v", eng.st.Resources)
	}
	if len(eng.st.Generators) != 0 || len(eng.st.Upgrades) != 0 || len(eng.st.Research) != 0 {
		t.Errorf("Ownership survived the reset")
	}
	if len(eng.st.Ships) != 0 || len(eng.st.Colonies) != 0 {
		t.Errorf("Fleet or colonies survived the reset")
	}
	if eng.st.Settings.Notation != "scientific" {
		t.Errorf("Settings should survive ascension, got %q", eng.st.Settings.Notation)
	}
	if eng.st.TLast != tLastBefore {
		t.Errorf("TLast changed across ascension: %d -> %d", tLastBefore, eng.st.TLast)
	}
}

func TestPrestigeBonusAppliesToEnergyAndScienceOnly(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.st.Resources.Energy = 1000
	if err := eng.Ascend(); err != nil {
		t.Fatalf("Ascend failed: %v", err)
	}

	eng.st.Generators["solar"] = 10
	eng.st.Generators["lab"] = 10
	eng.st.Colonies["proximaB"] = true
	eng.recomputeRates()

	// 10 EPS and 10 SPS scaled by 1.3; colony 50 MPS untouched.
	if got := eng.st.Rates.EPS; math.Abs(got-13) > 1e-9 {
		t.Errorf("Expected 13 EPS with 3 meta points, got %f", got)
	}
	if got := eng.st.Rates.SPS; math.Abs(got-13) > 1e-9 {
		t.Errorf("Expected 13 SPS with 3 meta points, got %f", got)
	}
	if got := eng.st.Rates.MPS; math.Abs(got-50) > 1e-9 {
		t.Errorf("Expected 50 MPS unaffected by prestige, got %f", got)
	}
}

func TestDoubleAscensionAccumulatesMetaPoints(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.st.Resources.Energy = 1000
	if err := eng.Ascend(); err != nil {
		t.Fatalf("First ascension failed: %v", err)
	}
	if eng.st.Meta.MetaPoints != 3 || eng.st.Meta.Ascensions != 1 {
		t.Fatalf("Expected meta {1, 3} after first ascension, got %+v", eng.st.Meta)
	}

	// The default reset stockpile of 10 energy is itself worth 1 point.
	if got := eng.PrestigePoints(); got != 1 {
		t.Fatalf("Expected 1 point at 10 energy, got %d", got)
	}
	if err := eng.Ascend(); err != nil {
		t.Fatalf("Second ascension failed: %v", err)
	}
	if eng.st.Meta.MetaPoints != 4 || eng.st.Meta.Ascensions != 2 {
		t.Errorf("Expected meta {2, 4} after second ascension, got %+v", eng.st.Meta)
	}

	eng.st.Generators["solar"] = 1
	eng.recomputeRates()
	if got := eng.st.Rates.EPS; math.Abs(got-1.4) > 1e-9 {
		t.Errorf("Expected 1.4 EPS with 4 meta points, got %f", got)
	}
}
