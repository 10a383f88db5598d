package engine

import (
	"fmt"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/events"
)

// StartMission commits one ship to a mission. Ships are never marked
// unavailable individually; the constraint is a count comparison: the
// owned ship count must strictly exceed the number of missions already
// in flight.
func (e *Engine) StartMission(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tmpl := e.cat.Mission(id)
	if tmpl == nil {
		return e.reject(fmt.Errorf("%w: mission %q", state.ErrUnknownID, id))
	}
	if !e.st.Features(e.cat).Missions {
		return e.reject(state.ErrLocked)
	}
	if e.st.ShipCount() <= e.st.ActiveMissionCount() {
		return e.reject(state.ErrInsufficientShips)
	}

	endTime := e.clock.Now().UnixMilli() + tmpl.DurationMillis()
	e.st.Missions = append(e.st.Missions, state.ActiveMission{
		Type:    id,
		EndTime: endTime,
	})
	e.appendEvent(events.EventTypeMissionStarted, id, map[string]interface{}{
		"end_time": endTime,
	})
	e.accept()
	return nil
}

// resolveMissions pays out and removes every mission whose end time has
// passed. Rewards are credited in full exactly once, never prorated.
// Caller must hold e.mu.
func (e *Engine) resolveMissions(nowMillis int64) {
	remaining := e.st.Missions[:0]
	for _, m := range e.st.Missions {
		if nowMillis < m.EndTime {
			remaining = append(remaining, m)
			continue
		}

		tmpl := e.cat.Mission(m.Type)
		if tmpl == nil {
			// Save data referencing a retired template; drop the mission.
			e.logger.Warn("Dropping mission with unknown template: " + m.Type)
			continue
		}

		for res, amount := range tmpl.Rewards {
			switch res {
			case catalog.ResourceEnergy:
				e.st.Resources.Energy += amount
			case catalog.ResourceMaterials:
				e.st.Resources.Materials += amount
			case catalog.ResourceScience:
				e.st.Resources.Science += amount
			}
		}
		e.appendEvent(events.EventTypeMissionCompleted, m.Type, map[string]interface{}{
			"end_time": m.EndTime,
		})
	}
	e.st.Missions = remaining
}
