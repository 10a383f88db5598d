package catalog

// Default returns the built-in universe dataset. It is used when no
// catalog file is configured and by tests that need a known-good catalog.
func Default() *Catalog {
	c := &Catalog{
		Generators: []Generator{
			{ID: "solar", Name: "Solar Farm", BaseCost: 10, CostGrowth: 1.15, BaseProd: 1, Resource: ResourceEnergy, Base: true},
			{ID: "geothermal", Name: "Geothermal Plant", BaseCost: 100, CostGrowth: 1.2, BaseProd: 10, Resource: ResourceEnergy},
			{ID: "fusion", Name: "Fusion Reactor", BaseCost: 1000, CostGrowth: 1.25, BaseProd: 100, Resource: ResourceEnergy},
			{ID: "lab", Name: "Research Lab", BaseCost: 100, CostGrowth: 1.2, BaseProd: 1, Resource: ResourceScience, Base: true},
		},
		Upgrades: []Upgrade{
			{ID: "solarUpgrade1", Name: "Solar Panel Efficiency", Cost: 100, Multiplier: 2, Generator: "solar"},
			{ID: "geothermalUpgrade1", Name: "Geothermal Turbine Upgrade", Cost: 1000, Multiplier: 2, Generator: "geothermal"},
			{ID: "fusionUpgrade1", Name: "Fusion Containment Field", Cost: 10000, Multiplier: 2, Generator: "fusion"},
			{ID: "labUpgrade1", Name: "Automated Lab Assistants", Cost: 5000, Multiplier: 2, Generator: "lab"},
		},
		Research: []Research{
			{ID: "unlockGeothermal", Name: "Unlock Geothermal", Cost: 10, Unlocks: []UnlockEffect{
				{Kind: UnlockRevealGenerator, Generator: "geothermal"},
			}},
			{ID: "unlockFusion", Name: "Unlock Fusion", Cost: 100, Unlocks: []UnlockEffect{
				{Kind: UnlockRevealGenerator, Generator: "fusion"},
			}},
			{ID: "unlockMissions", Name: "Unlock Missions", Cost: 50, Unlocks: []UnlockEffect{
				{Kind: UnlockEnableMissions},
			}},
			{ID: "unlockColonies", Name: "Unlock Colonies", Cost: 200, Unlocks: []UnlockEffect{
				{Kind: UnlockEnableColonies},
			}},
			{ID: "unlockFTL", Name: "Unlock FTL Travel", Cost: 500, Unlocks: []UnlockEffect{
				{Kind: UnlockEnableFTL},
			}},
		},
		Ships: []Ship{
			{ID: "scout", Name: "Scout", Cost: 100, Capacity: 100},
			{ID: "miner", Name: "Miner", Cost: 500, Capacity: 500},
		},
		Missions: []MissionTemplate{
			{ID: "explore", Name: "Explore", DurationSec: 60, Rewards: map[ResourceID]float64{ResourceMaterials: 100}},
			{ID: "mine", Name: "Mine Asteroid", DurationSec: 120, Rewards: map[ResourceID]float64{ResourceMaterials: 500}},
		},
		Colonies: []ColonyTemplate{
			{ID: "alphaCentauri", Name: "Alpha Centauri", Cost: 10000, Production: map[ResourceID]float64{ResourceEnergy: 100}},
			{ID: "proximaB", Name: "Proxima B", Cost: 50000, Production: map[ResourceID]float64{ResourceMaterials: 50}},
		},
	}

	// The built-in dataset is authored here; a validation failure is a
	// programming error, not a runtime condition.
	if err := c.finalize(); err != nil {
		panic("catalog: built-in dataset invalid: " + err.Error())
	}
	return c
}
