package engine

import (
	"sort"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/domain/rules"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
)

// GeneratorView is the renderer-facing summary of one generator.
// Locked generators are included with Unlocked=false; visibility is a
// display concern, the purchase gate lives in the economy system.
type GeneratorView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	NextCost float64 `json:"next_cost"`
	Unlocked bool    `json:"unlocked"`
}

// MissionView is an in-flight mission with its remaining time.
type MissionView struct {
	Type        string `json:"type"`
	EndTime     int64  `json:"end_time"`
	RemainingMS int64  `json:"remaining_ms"`
}

// Snapshot is a deep-copied, render-ready view of the full simulation
// state. The renderer reads snapshots and invokes commands; it never
// touches the aggregate.
type Snapshot struct {
	TLast          int64              `json:"t_last"`
	Resources      state.Resources    `json:"resources"`
	Rates          state.Rates        `json:"rates"`
	Generators     []GeneratorView    `json:"generators"`
	Upgrades       []string           `json:"upgrades"`
	Research       []string           `json:"research"`
	Features       state.FeatureFlags `json:"features"`
	Ships          map[string]int     `json:"ships"` // Type -> count
	Missions       []MissionView      `json:"missions"`
	Colonies       []string           `json:"colonies"`
	Meta           state.Meta         `json:"meta"`
	Settings       state.Settings     `json:"settings"`
	PrestigePoints int                `json:"prestige_points"`
}

// Snapshot captures the current state for the network layer.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	nowMillis := e.clock.Now().UnixMilli()

	snap := Snapshot{
		TLast:          e.st.TLast,
		Resources:      e.st.Resources,
		Rates:          e.st.Rates,
		Features:       e.st.Features(e.cat),
		Ships:          make(map[string]int),
		Meta:           e.st.Meta,
		Settings:       e.st.Settings,
		PrestigePoints: rules.PrestigePoints(e.st.Resources.Energy),
	}

	for _, gen := range e.cat.Generators {
		level := e.st.Generators[gen.ID]
		snap.Generators = append(snap.Generators, GeneratorView{
			ID:       gen.ID,
			Name:     gen.Name,
			Level:    level,
			NextCost: rules.GeneratorCost(gen.BaseCost, gen.CostGrowth, level),
			Unlocked: e.st.GeneratorUnlocked(e.cat, gen.ID),
		})
	}

	for id := range e.st.Upgrades {
		snap.Upgrades = append(snap.Upgrades, id)
	}
	sort.Strings(snap.Upgrades)

	for id := range e.st.Research {
		snap.Research = append(snap.Research, id)
	}
	sort.Strings(snap.Research)

	for _, ship := range e.st.Ships {
		snap.Ships[ship.Type]++
	}

	for _, m := range e.st.Missions {
		remaining := m.EndTime - nowMillis
		if remaining < 0 {
			remaining = 0
		}
		snap.Missions = append(snap.Missions, MissionView{
			Type:        m.Type,
			EndTime:     m.EndTime,
			RemainingMS: remaining,
		})
	}

	for id := range e.st.Colonies {
		snap.Colonies = append(snap.Colonies, id)
	}
	sort.Strings(snap.Colonies)

	return snap
}

// Now exposes the engine clock for the network layer's poller.
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}
