// Package catalog defines the static universe data: generators, upgrades,
// research, ships, missions and colonies. The catalog is immutable after
// load; the engine only ever reads from it.
//
// Data is loaded once at startup, either from a YAML file or from the
// built-in default set. Entities are exposed through lookup-by-id so the
// engine's dependency on data stays explicit and testable.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourceID identifies one of the three simulated resources.
type ResourceID string

const (
	ResourceEnergy    ResourceID = "energy"
	ResourceMaterials ResourceID = "materials"
	ResourceScience   ResourceID = "science"
)

// UnlockKind tags a research unlock effect.
type UnlockKind string

const (
	UnlockRevealGenerator UnlockKind = "reveal_generator"
	UnlockEnableMissions  UnlockKind = "enable_missions"
	UnlockEnableColonies  UnlockKind = "enable_colonies"
	UnlockEnableFTL       UnlockKind = "enable_ftl"
)

// Generator is a purchasable production unit scaling with integer level.
type Generator struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	BaseCost   float64    `yaml:"base_cost"`   // Paid in energy
	CostGrowth float64    `yaml:"cost_growth"` // Must be > 1
	BaseProd   float64    `yaml:"base_prod"`   // Per level per second
	Resource   ResourceID `yaml:"resource"`    // Produced resource
	Base       bool       `yaml:"base"`        // Available without research
}

// Upgrade is a one-time multiplicative bonus for one generator.
type Upgrade struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Cost       float64 `yaml:"cost"`       // Paid in energy
	Multiplier float64 `yaml:"multiplier"` // Must be > 1
	Generator  string  `yaml:"generator"`  // Target generator id
}

// UnlockEffect is a single tagged effect of a research item.
// Exactly one variant applies per effect; RevealGenerator carries the
// generator id, the feature flags carry nothing.
type UnlockEffect struct {
	Kind      UnlockKind `yaml:"kind"`
	Generator string     `yaml:"generator,omitempty"` // Set for reveal_generator
}

// Research is a one-time purchase paid in science.
type Research struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Cost    float64        `yaml:"cost"` // Paid in science
	Unlocks []UnlockEffect `yaml:"unlocks"`
}

// Ship is a buildable vessel. Capacity is reserved for future mechanics.
type Ship struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Cost     float64 `yaml:"cost"` // Paid in materials
	Capacity int     `yaml:"capacity"`
}

// MissionTemplate describes a timed commitment of one ship.
type MissionTemplate struct {
	ID          string                 `yaml:"id"`
	Name        string                 `yaml:"name"`
	DurationSec int64                  `yaml:"duration_sec"`
	Rewards     map[ResourceID]float64 `yaml:"rewards"`
}

// DurationMillis returns the mission length in epoch-arithmetic units.
func (m *MissionTemplate) DurationMillis() int64 {
	return m.DurationSec * 1000
}

// ColonyTemplate describes a one-time purchase granting flat production.
type ColonyTemplate struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name"`
	Cost       float64                `yaml:"cost"` // Paid in materials
	Production map[ResourceID]float64 `yaml:"production"`
}

// Catalog is the full static dataset. Fields are exported for YAML
// decoding but callers must treat a loaded catalog as read-only.
type Catalog struct {
	Generators []Generator       `yaml:"generators"`
	Upgrades   []Upgrade         `yaml:"upgrades"`
	Research   []Research        `yaml:"research"`
	Ships      []Ship            `yaml:"ships"`
	Missions   []MissionTemplate `yaml:"missions"`
	Colonies   []ColonyTemplate  `yaml:"colonies"`

	generatorsByID map[string]*Generator
	upgradesByID   map[string]*Upgrade
	researchByID   map[string]*Research
	shipsByID      map[string]*Ship
	missionsByID   map[string]*MissionTemplate
	coloniesByID   map[string]*ColonyTemplate
}

// Load reads a catalog from a YAML file, validates it and indexes it.
func Load(path string) (*Catalog, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(f, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// finalize validates the catalog and builds the lookup maps.
func (c *Catalog) finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.generatorsByID = make(map[string]*Generator, len(c.Generators))
	for i := range c.Generators {
		c.generatorsByID[c.Generators[i].ID] = &c.Generators[i]
	}
	c.upgradesByID = make(map[string]*Upgrade, len(c.Upgrades))
	for i := range c.Upgrades {
		c.upgradesByID[c.Upgrades[i].ID] = &c.Upgrades[i]
	}
	c.researchByID = make(map[string]*Research, len(c.Research))
	for i := range c.Research {
		c.researchByID[c.Research[i].ID] = &c.Research[i]
	}
	c.shipsByID = make(map[string]*Ship, len(c.Ships))
	for i := range c.Ships {
		c.shipsByID[c.Ships[i].ID] = &c.Ships[i]
	}
	c.missionsByID = make(map[string]*MissionTemplate, len(c.Missions))
	for i := range c.Missions {
		c.missionsByID[c.Missions[i].ID] = &c.Missions[i]
	}
	c.coloniesByID = make(map[string]*ColonyTemplate, len(c.Colonies))
	for i := range c.Colonies {
		c.coloniesByID[c.Colonies[i].ID] = &c.Colonies[i]
	}
	return nil
}

// Validate checks structural consistency: positive costs, growth factors
// above 1, and no dangling generator or resource references.
func (c *Catalog) Validate() error {
	validResource := func(r ResourceID) bool {
		return r == ResourceEnergy || r == ResourceMaterials || r == ResourceScience
	}

	genIDs := make(map[string]bool, len(c.Generators))
	for _, g := range c.Generators {
		if g.ID == "" {
			return fmt.Errorf("generator with empty id")
		}
		if genIDs[g.ID] {
			return fmt.Errorf("duplicate generator id %q", g.ID)
		}
		genIDs[g.ID] = true
		if g.BaseCost <= 0 {
			return fmt.Errorf("generator %q: base cost must be positive", g.ID)
		}
		if g.CostGrowth <= 1 {
			return fmt.Errorf("generator %q: cost growth must exceed 1", g.ID)
		}
		if g.BaseProd <= 0 {
			return fmt.Errorf("generator %q: base production must be positive", g.ID)
		}
		if !validResource(g.Resource) {
			return fmt.Errorf("generator %q: unknown resource %q", g.ID, g.Resource)
		}
	}

	for _, u := range c.Upgrades {
		if u.Multiplier <= 1 {
			return fmt.Errorf("upgrade %q: multiplier must exceed 1", u.ID)
		}
		if u.Cost <= 0 {
			return fmt.Errorf("upgrade %q: cost must be positive", u.ID)
		}
		if !genIDs[u.Generator] {
			return fmt.Errorf("upgrade %q: unknown target generator %q", u.ID, u.Generator)
		}
	}

	for _, r := range c.Research {
		if r.Cost <= 0 {
			return fmt.Errorf("research %q: cost must be positive", r.ID)
		}
		for _, e := range r.Unlocks {
			switch e.Kind {
			case UnlockRevealGenerator:
				if !genIDs[e.Generator] {
					return fmt.Errorf("research %q: reveals unknown generator %q", r.ID, e.Generator)
				}
			case UnlockEnableMissions, UnlockEnableColonies, UnlockEnableFTL:
				// Flag effects carry no payload.
			default:
				return fmt.Errorf("research %q: unknown unlock kind %q", r.ID, e.Kind)
			}
		}
	}

	for _, s := range c.Ships {
		if s.Cost <= 0 {
			return fmt.Errorf("ship %q: cost must be positive", s.ID)
		}
	}

	for _, m := range c.Missions {
		if m.DurationSec <= 0 {
			return fmt.Errorf("mission %q: duration must be positive", m.ID)
		}
		for res := range m.Rewards {
			if !validResource(res) {
				return fmt.Errorf("mission %q: unknown reward resource %q", m.ID, res)
			}
		}
	}

	for _, col := range c.Colonies {
		if col.Cost <= 0 {
			return fmt.Errorf("colony %q: cost must be positive", col.ID)
		}
		for res := range col.Production {
			if !validResource(res) {
				return fmt.Errorf("colony %q: unknown production resource %q", col.ID, res)
			}
		}
	}

	return nil
}

// Lookup accessors. A nil return means the id does not exist.

func (c *Catalog) Generator(id string) *Generator     { return c.generatorsByID[id] }
func (c *Catalog) Upgrade(id string) *Upgrade         { return c.upgradesByID[id] }
func (c *Catalog) ResearchItem(id string) *Research   { return c.researchByID[id] }
func (c *Catalog) Ship(id string) *Ship               { return c.shipsByID[id] }
func (c *Catalog) Mission(id string) *MissionTemplate { return c.missionsByID[id] }
func (c *Catalog) Colony(id string) *ColonyTemplate   { return c.coloniesByID[id] }
