// Package state defines the single mutable game-state aggregate.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform). All mutation funnels through the engine.
package state

import (
	"errors"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
)

// Version is the persisted-state schema version.
const Version = 1

// Command rejection reasons. The engine returns these unmodified so the
// calling layer can surface them; none of them is fatal to the process.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrAlreadyOwned          = errors.New("already owned")
	ErrInsufficientShips     = errors.New("insufficient ships")
	ErrNoPointsAvailable     = errors.New("no prestige points available")
	ErrCorruptSave           = errors.New("corrupt save data")
	ErrUnknownID             = errors.New("unknown catalog id")
	ErrLocked                = errors.New("not yet unlocked by research")
)

// Resources holds the current stockpile of each resource.
// Quantities never go negative: purchases are rejected, not partially applied.
type Resources struct {
	Energy    float64 `json:"energy"`
	Materials float64 `json:"materials"`
	Science   float64 `json:"science"`
}

// Rates holds the current per-second production, derived from ownership.
type Rates struct {
	EPS float64 `json:"eps"`
	MPS float64 `json:"mps"`
	SPS float64 `json:"sps"`
}

// Ship is an owned vessel. Ships are fungible and identified only by type.
type Ship struct {
	Type string `json:"type"`
}

// ActiveMission is a ship commitment in flight.
type ActiveMission struct {
	Type    string `json:"type"`
	EndTime int64  `json:"endTime"` // Epoch milliseconds
}

// Meta is the progression that survives ascension resets. Append-only.
type Meta struct {
	Ascensions int `json:"ascensions"`
	MetaPoints int `json:"metaPoints"`
}

// Settings holds cosmetic preferences. They have no effect on stored values.
type Settings struct {
	Notation string `json:"notation"` // "compact" or "scientific"
}

// State is the full mutable aggregate for one session. There are no
// ambient globals; the engine owns the one instance and serializes access.
type State struct {
	TLast      int64 // Epoch ms of the last processed tick
	Resources  Resources
	Rates      Rates
	Generators map[string]int  // Generator id -> level
	Upgrades   map[string]bool // Acquired upgrade ids
	Research   map[string]bool // Completed research ids
	Ships      []Ship
	Missions   []ActiveMission
	Colonies   map[string]bool // Established colony ids
	Meta       Meta
	Settings   Settings
}

// New returns the default initial state: the starting stockpile of a
// fresh session, zero ownership, compact notation.
func New(nowMillis int64) *State {
	return &State{
		TLast: nowMillis,
		Resources: Resources{
			Energy:    10,
			Materials: 100,
			Science:   0,
		},
		Generators: make(map[string]int),
		Upgrades:   make(map[string]bool),
		Research:   make(map[string]bool),
		Ships:      []Ship{},
		Missions:   []ActiveMission{},
		Colonies:   make(map[string]bool),
		Settings:   Settings{Notation: "compact"},
	}
}

// HasUpgrade reports whether an upgrade has been acquired.
func (s *State) HasUpgrade(id string) bool { return s.Upgrades[id] }

// HasResearch reports whether a research item has been completed.
func (s *State) HasResearch(id string) bool { return s.Research[id] }

// HasColony reports whether a colony has been established.
func (s *State) HasColony(id string) bool { return s.Colonies[id] }

// ShipCount returns the total number of owned ships.
func (s *State) ShipCount() int { return len(s.Ships) }

// ActiveMissionCount returns the number of missions in flight.
func (s *State) ActiveMissionCount() int { return len(s.Missions) }

// FeatureFlags are the feature areas enabled by completed research.
type FeatureFlags struct {
	Missions bool `json:"missions"`
	Colonies bool `json:"colonies"`
	FTL      bool `json:"ftl"`
}

// Features derives the enabled feature areas from the research set.
// Derivation is lazy and idempotent; there is no unlock-application step.
func (s *State) Features(cat *catalog.Catalog) FeatureFlags {
	var f FeatureFlags
	for id := range s.Research {
		item := cat.ResearchItem(id)
		if item == nil {
			continue
		}
		for _, e := range item.Unlocks {
			switch e.Kind {
			case catalog.UnlockEnableMissions:
				f.Missions = true
			case catalog.UnlockEnableColonies:
				f.Colonies = true
			case catalog.UnlockEnableFTL:
				f.FTL = true
			}
		}
	}
	return f
}

// GeneratorUnlocked reports whether a generator is reachable: base
// generators always are, the rest require a completed research that
// reveals them.
func (s *State) GeneratorUnlocked(cat *catalog.Catalog, generatorID string) bool {
	gen := cat.Generator(generatorID)
	if gen == nil {
		return false
	}
	if gen.Base {
		return true
	}
	for id := range s.Research {
		item := cat.ResearchItem(id)
		if item == nil {
			continue
		}
		for _, e := range item.Unlocks {
			if e.Kind == catalog.UnlockRevealGenerator && e.Generator == generatorID {
				return true
			}
		}
	}
	return false
}

// ResetForAscension replaces the economy with default initial values
// while preserving Meta and Settings. TLast is kept: the temporal
// timeline continues across the reset.
func (s *State) ResetForAscension() {
	fresh := New(s.TLast)
	fresh.Meta = s.Meta
	fresh.Settings = s.Settings
	*s = *fresh
}
