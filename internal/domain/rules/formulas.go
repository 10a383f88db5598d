// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "math"

// MaxCatchUpMillis bounds offline catch-up to one hour of accrual per
// tick. It caps work per tick and prevents numeric blow-up after long
// absences; it is not a timeout.
const MaxCatchUpMillis = int64(3600 * 1000)

// GeneratorCost computes the purchase price of the next generator level:
// baseCost * costGrowth^level. Strictly increasing in level for growth > 1.
func GeneratorCost(baseCost, costGrowth float64, level int) float64 {
	return baseCost * math.Pow(costGrowth, float64(level))
}

// PrestigePoints converts current energy into prestige currency:
// floor(log10(energy + 1)). Zero below 9 energy.
func PrestigePoints(energy float64) int {
	if energy < 0 {
		return 0
	}
	return int(math.Floor(math.Log10(energy + 1)))
}

// PrestigeMultiplier is the permanent production bonus applied to the
// aggregate energy and science rates (materials are unaffected).
func PrestigeMultiplier(metaPoints int) float64 {
	return 1 + float64(metaPoints)*0.1
}

// ClampElapsed bounds the elapsed interval of one tick. Negative values
// (clock skew) collapse to zero rather than rewinding the economy.
func ClampElapsed(elapsedMillis int64) int64 {
	if elapsedMillis < 0 {
		return 0
	}
	if elapsedMillis > MaxCatchUpMillis {
		return MaxCatchUpMillis
	}
	return elapsedMillis
}
