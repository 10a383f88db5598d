package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/catalog"
	"github.com/rmoncayo/stellarforge/server/internal/clock"
	"github.com/rmoncayo/stellarforge/server/internal/engine"
	"github.com/rmoncayo/stellarforge/server/internal/events"
	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
)

// simulate runs the engine headless on a virtual clock and greedily
// buys whatever it can afford each step. Good for balance checks on a
// catalog file: how long until fusion, until the first ascension, and
// what the event ledger looks like along the way.

func main() {
	catalogPath := flag.String("catalog", "", "catalog YAML (empty = built-in)")
	hours := flag.Float64("hours", 2, "virtual playtime to simulate")
	step := flag.Duration("step", 10*time.Second, "virtual time per simulation step")
	dump := flag.Bool("dump", false, "print final snapshot as JSON")
	flag.Parse()

	var cat *catalog.Catalog
	var err error
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	} else {
		cat = catalog.Default()
	}

	eng := engine.NewEngine(cat, events.NewEventLog(nil), nil, logger.NewLogger())
	fc := &clock.Fixed{T: time.Unix(0, 0)}
	eng.SetClock(fc)
	if err := eng.Load(); err != nil {
		log.Fatalf("init state: %v", err)
	}

	steps := int(float64(time.Duration(*hours*float64(time.Hour))) / float64(*step))
	for i := 0; i < steps; i++ {
		fc.T = fc.T.Add(*step)
		eng.Tick(fc.T)
		greedyBuy(eng, cat)
	}

	snap := eng.Snapshot()
	fmt.Printf("after %.1fh virtual time:\n", *hours)
	fmt.Printf("  energy=%.1f materials=%.1f science=%.1f\n",
		snap.Resources.Energy, snap.Resources.Materials, snap.Resources.Science)
	fmt.Printf("  rates: eps=%.2f mps=%.2f sps=%.2f\n",
		snap.Rates.EPS, snap.Rates.MPS, snap.Rates.SPS)
	fmt.Printf("  research=%v colonies=%v prestigePoints=%d\n",
		snap.Research, snap.Colonies, snap.PrestigePoints)
	for _, g := range snap.Generators {
		fmt.Printf("  %-12s level=%d nextCost=%.0f unlocked=%v\n", g.ID, g.Level, g.NextCost, g.Unlocked)
	}
	fmt.Printf("  events logged: %d\n", eng.EventLog().Len())

	if *dump {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			log.Fatalf("encode snapshot: %v", err)
		}
	}
}

// greedyBuy attempts every catalog purchase once per step. Rejections
// are the normal case and are ignored.
func greedyBuy(eng *engine.Engine, cat *catalog.Catalog) {
	for _, r := range cat.Research {
		eng.PurchaseResearch(r.ID)
	}
	for _, u := range cat.Upgrades {
		eng.PurchaseUpgrade(u.ID)
	}
	for _, g := range cat.Generators {
		eng.PurchaseGenerator(g.ID)
	}
	for _, s := range cat.Ships {
		eng.BuildShip(s.ID)
	}
	for _, m := range cat.Missions {
		eng.StartMission(m.ID)
	}
	for _, c := range cat.Colonies {
		eng.Colonize(c.ID)
	}
	if eng.PrestigePoints() >= 3 {
		eng.Ascend()
	}
}
