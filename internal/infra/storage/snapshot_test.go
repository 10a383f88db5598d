package storage

import (
	"errors"
	"testing"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

func populatedState() *state.State {
	st := state.New(1700000000000)
	st.Resources = state.Resources{Energy: 1234.5, Materials: 67.8, Science: 9}
	st.Rates = state.Rates{EPS: 12, MPS: 3.4, SPS: 0.5}
	st.Generators["solar"] = 7
	st.Generators["lab"] = 2
	st.Upgrades["solarUpgrade1"] = true
	st.Research["unlockGeothermal"] = true
	st.Research["unlockMissions"] = true
	st.Ships = []state.Ship{{Type: "scout"}, {Type: "miner"}}
	st.Missions = []state.ActiveMission{{Type: "explore", EndTime: 1700000060000}}
	st.Colonies["alphaCentauri"] = true
	st.Meta = state.Meta{Ascensions: 2, MetaPoints: 5}
	st.Settings = state.Settings{Notation: "scientific"}
	return st
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := populatedState()

	payload, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	restored, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if restored.TLast != original.TLast {
		t.Errorf("TLast mismatch: %d vs %d", restored.TLast, original.TLast)
	}
	if restored.Resources != original.Resources {
		t.Errorf("Resources mismatch: %+v vs %+v", restored.Resources, original.Resources)
	}
	if restored.Rates != original.Rates {
		t.Errorf("Rates mismatch: %+v vs %+v", restored.Rates, original.Rates)
	}
	if restored.Generators["solar"] != 7 || restored.Generators["lab"] != 2 {
		t.Errorf("Generator levels mismatch: %+v", restored.Generators)
	}
	if !restored.HasUpgrade("solarUpgrade1") {
		t.Errorf("Upgrade set lost in round trip")
	}
	if !restored.HasResearch("unlockGeothermal") || !restored.HasResearch("unlockMissions") {
		t.Errorf("Research set lost in round trip: %+v", restored.Research)
	}
	if restored.ShipCount() != 2 {
		t.Errorf("Expected 2 ships, got %d", restored.ShipCount())
	}
	if restored.ActiveMissionCount() != 1 || restored.Missions[0].EndTime != 1700000060000 {
		t.Errorf("Missions mismatch: %+v", restored.Missions)
	}
	if !restored.HasColony("alphaCentauri") {
		t.Errorf("Colony set lost in round trip")
	}
	if restored.Meta != original.Meta {
		t.Errorf("Meta mismatch: %+v vs %+v", restored.Meta, original.Meta)
	}
	if restored.Settings != original.Settings {
		t.Errorf("Settings mismatch: %+v vs %+v", restored.Settings, original.Settings)
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	if !errors.Is(err, state.ErrCorruptSave) {
		t.Errorf("Expected ErrCorruptSave for garbage input, got %v", err)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version": 99}`))
	if !errors.Is(err, state.ErrCorruptSave) {
		t.Errorf("Expected ErrCorruptSave for unknown version, got %v", err)
	}
}

func TestDecodeToleratesMissingCollections(t *testing.T) {
	// Minimal valid document: absent collections become empty, not nil.
	restored, err := Decode([]byte(`{"version": 1, "tLast": 42}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if restored.TLast != 42 {
		t.Errorf("Expected TLast 42, got %d", restored.TLast)
	}
	if restored.Generators == nil || restored.Upgrades == nil || restored.Colonies == nil {
		t.Errorf("Absent collections decoded to nil maps")
	}
	if restored.Ships == nil || restored.Missions == nil {
		t.Errorf("Absent collections decoded to nil slices")
	}
	if restored.Settings.Notation != "compact" {
		t.Errorf("Expected default notation for absent settings, got %q", restored.Settings.Notation)
	}
}
