// Package storage provides the persistence layer for the simulation.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

// PersistedState is the canonical durable document: one versioned JSON
// snapshot of the full session. Set-valued fields are stored as ordered
// sequences; membership, not order, is what round-trips.
type PersistedState struct {
	Version    int                   `json:"version"`
	TLast      int64                 `json:"tLast"`
	Resources  state.Resources       `json:"resources"`
	Rates      state.Rates           `json:"rates"`
	Generators map[string]int        `json:"generators"`
	Upgrades   []string              `json:"upgrades"`
	Research   []string              `json:"research"`
	Ships      []state.Ship          `json:"ships"`
	Missions   []state.ActiveMission `json:"missions"`
	Colonies   []string              `json:"colonies"`
	Meta       state.Meta            `json:"meta"`
	Settings   state.Settings        `json:"settings"`
}

// Encode serializes a state aggregate into the durable JSON document.
func Encode(st *state.State) ([]byte, error) {
	doc := PersistedState{
		Version:    state.Version,
		TLast:      st.TLast,
		Resources:  st.Resources,
		Rates:      st.Rates,
		Generators: st.Generators,
		Upgrades:   sortedKeys(st.Upgrades),
		Research:   sortedKeys(st.Research),
		Ships:      st.Ships,
		Missions:   st.Missions,
		Colonies:   sortedKeys(st.Colonies),
		Meta:       st.Meta,
		Settings:   st.Settings,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save document: %w", err)
	}
	return payload, nil
}

// Decode reconstructs a state aggregate from a durable document.
// Malformed input or an unknown schema version yields ErrCorruptSave;
// the caller degrades to a fresh session rather than crashing.
func Decode(payload []byte) (*state.State, error) {
	var doc PersistedState
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", state.ErrCorruptSave, err)
	}
	if doc.Version != state.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", state.ErrCorruptSave, doc.Version)
	}

	st := state.New(doc.TLast)
	st.Resources = doc.Resources
	st.Rates = doc.Rates
	if doc.Generators != nil {
		st.Generators = doc.Generators
	}
	for _, id := range doc.Upgrades {
		st.Upgrades[id] = true
	}
	for _, id := range doc.Research {
		st.Research[id] = true
	}
	if doc.Ships != nil {
		st.Ships = doc.Ships
	}
	if doc.Missions != nil {
		st.Missions = doc.Missions
	}
	for _, id := range doc.Colonies {
		st.Colonies[id] = true
	}
	st.Meta = doc.Meta
	if doc.Settings.Notation != "" {
		st.Settings = doc.Settings
	}

	return st, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
