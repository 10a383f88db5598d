package engine

import (
	"fmt"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
	"github.com/rmoncayo/stellarforge/server/internal/domain/rules"
	"github.com/rmoncayo/stellarforge/server/internal/domain/state"
	"github.com/rmoncayo/stellarforge/server/internal/events"
)

// ComputeRates derives the per-second production from ownership alone.
// For each generator: baseProd * level * product of acquired upgrade
// multipliers targeting it. Owned colonies contribute flat rates. The
// aggregate energy and science rates are then scaled by the prestige
// multiplier; materials are not.
//
// Pure function of (levels, upgrade set, colonies, metaPoints): identical
// input always yields identical output.
func ComputeRates(cat *catalog.Catalog, st *state.State) state.Rates {
	var r state.Rates

	for _, gen := range cat.Generators {
		level := st.Generators[gen.ID]
		if level == 0 {
			continue
		}

		multiplier := 1.0
		for _, up := range cat.Upgrades {
			if up.Generator == gen.ID && st.HasUpgrade(up.ID) {
				multiplier *= up.Multiplier
			}
		}

		prod := gen.BaseProd * float64(level) * multiplier
		switch gen.Resource {
		case catalog.ResourceEnergy:
			r.EPS += prod
		case catalog.ResourceMaterials:
			r.MPS += prod
		case catalog.ResourceScience:
			r.SPS += prod
		}
	}

	for _, col := range cat.Colonies {
		if !st.HasColony(col.ID) {
			continue
		}
		r.EPS += col.Production[catalog.ResourceEnergy]
		r.MPS += col.Production[catalog.ResourceMaterials]
		r.SPS += col.Production[catalog.ResourceScience]
	}

	bonus := rules.PrestigeMultiplier(st.Meta.MetaPoints)
	r.EPS *= bonus
	r.SPS *= bonus

	return r
}

// recomputeRates refreshes the derived rates on the aggregate.
// Caller must hold e.mu. Invoked after every purchase, unlock, colonize
// and ascension; never on a schedule.
func (e *Engine) recomputeRates() {
	e.st.Rates = ComputeRates(e.cat, e.st)
}

// PurchaseGenerator buys the next level of a generator. Cost is paid in
// energy and grows geometrically with the current level.
func (e *Engine) PurchaseGenerator(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	gen := e.cat.Generator(id)
	if gen == nil {
		return e.reject(fmt.Errorf("%w: generator %q", state.ErrUnknownID, id))
	}
	if !e.st.GeneratorUnlocked(e.cat, id) {
		return e.reject(state.ErrLocked)
	}

	level := e.st.Generators[id]
	cost := rules.GeneratorCost(gen.BaseCost, gen.CostGrowth, level)
	if e.st.Resources.Energy < cost {
		return e.reject(state.ErrInsufficientResources)
	}

	e.st.Resources.Energy -= cost
	e.st.Generators[id] = level + 1
	e.recomputeRates()
	e.appendEvent(events.EventTypeGeneratorPurchased, id, map[string]interface{}{
		"level": level + 1,
		"cost":  cost,
	})
	e.accept()
	return nil
}

// PurchaseUpgrade buys a one-time multiplicative upgrade. Upgrades never
// expire and never stack twice.
func (e *Engine) PurchaseUpgrade(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	up := e.cat.Upgrade(id)
	if up == nil {
		return e.reject(fmt.Errorf("%w: upgrade %q", state.ErrUnknownID, id))
	}
	if e.st.HasUpgrade(id) {
		return e.reject(state.ErrAlreadyOwned)
	}
	if !e.st.GeneratorUnlocked(e.cat, up.Generator) {
		return e.reject(state.ErrLocked)
	}
	if e.st.Resources.Energy < up.Cost {
		return e.reject(state.ErrInsufficientResources)
	}

	e.st.Resources.Energy -= up.Cost
	e.st.Upgrades[id] = true
	e.recomputeRates()
	e.appendEvent(events.EventTypeUpgradePurchased, id, nil)
	e.accept()
	return nil
}

// PurchaseResearch completes a research item, paid in science. Unlock
// effects are derived lazily from the research set; researching twice is
// prevented by the AlreadyOwned check.
func (e *Engine) PurchaseResearch(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := e.cat.ResearchItem(id)
	if item == nil {
		return e.reject(fmt.Errorf("%w: research %q", state.ErrUnknownID, id))
	}
	if e.st.HasResearch(id) {
		return e.reject(state.ErrAlreadyOwned)
	}
	if e.st.Resources.Science < item.Cost {
		return e.reject(state.ErrInsufficientResources)
	}

	e.st.Resources.Science -= item.Cost
	e.st.Research[id] = true
	e.recomputeRates()
	e.appendEvent(events.EventTypeResearchCompleted, id, nil)
	e.accept()
	return nil
}

// BuildShip constructs a vessel, paid in materials. Ships are fungible
// and identified only by type.
func (e *Engine) BuildShip(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ship := e.cat.Ship(id)
	if ship == nil {
		return e.reject(fmt.Errorf("%w: ship %q", state.ErrUnknownID, id))
	}
	if e.st.Resources.Materials < ship.Cost {
		return e.reject(state.ErrInsufficientResources)
	}

	e.st.Resources.Materials -= ship.Cost
	e.st.Ships = append(e.st.Ships, state.Ship{Type: id})
	e.appendEvent(events.EventTypeShipBuilt, id, nil)
	e.accept()
	return nil
}

// Colonize establishes a colony, paid in materials. Colony production is
// folded into the rate computation, not applied as a one-time grant.
func (e *Engine) Colonize(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.cat.Colony(id)
	if col == nil {
		return e.reject(fmt.Errorf("%w: colony %q", state.ErrUnknownID, id))
	}
	if !e.st.Features(e.cat).Colonies {
		return e.reject(state.ErrLocked)
	}
	if e.st.HasColony(id) {
		return e.reject(state.ErrAlreadyOwned)
	}
	if e.st.Resources.Materials < col.Cost {
		return e.reject(state.ErrInsufficientResources)
	}

	e.st.Resources.Materials -= col.Cost
	e.st.Colonies[id] = true
	e.recomputeRates()
	e.appendEvent(events.EventTypeColonyEstablished, id, nil)
	e.accept()
	return nil
}
