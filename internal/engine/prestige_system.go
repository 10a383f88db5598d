package engine

import (
	"github.com/rmoncayo/stellarforge/server/internal/domain/rules"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/events"
)

// PrestigePoints returns the prestige currency an ascension would grant
// right now.
func (e *Engine) PrestigePoints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rules.PrestigePoints(e.st.Resources.Energy)
}

// Ascend performs the prestige reset: current energy is converted into
// permanent meta points, then the entire economy is replaced with its
// default initial values. Only MetaProgress (and cosmetic settings)
// survive. Ascension cannot be undone.
func (e *Engine) Ascend() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	points := rules.PrestigePoints(e.st.Resources.Energy)
	if points <= 0 {
		return e.reject(state.ErrNoPointsAvailable)
	}

	e.st.Meta.Ascensions++
	e.st.Meta.MetaPoints += points
	e.st.ResetForAscension()
	e.recomputeRates()

	e.appendEvent(events.EventTypeAscension, "", map[string]interface{}{
		"points_gained": points,
		"meta_points":   e.st.Meta.MetaPoints,
		"ascensions":    e.st.Meta.Ascensions,
	})
	e.logger.Event("ASCENSION", "player", "New prestige bonus active.")
	e.accept()
	return nil
}
