// Package rules contains the pure calculation logic for the market game.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// Fixed gameplay constants from the original ruleset.
const (
	BaseCapacity = 100
	MaxHealth    = 100
	TravelCost   = 10
	HealthRegen  = 2
	TipPrice     = 50

	// EventChance is the probability a street event fires on a new day.
	EventChance = 0.4

	// Daily bank interest is 1%, floored.
	interestDivisor = 100

	// NormalLeaveout goods are hidden per location per day, except during
	// the closing days of the game when the whole market opens up.
	NormalLeaveout   = 3
	FullMarketWindow = 2
)

// RentalTier is a purchasable warehouse upgrade.
type RentalTier struct {
	Cost         int `json:"cost"`
	CapacityGain int `json:"capacity_gain"`
}

// RentalTiers lists the upgrade ladder; RentalLevel indexes the next
// purchasable tier.
var RentalTiers = []RentalTier{
	{Cost: 500, CapacityGain: 20},
	{Cost: 1000, CapacityGain: 50},
	{Cost: 2000, CapacityGain: 100},
	{Cost: 5000, CapacityGain: 200},
}

// WeightedAverageCost recomputes the per-unit acquisition cost after a
// purchase, rounding half up on the quotient at every step. The rounding
// drift over many small purchases is intentional: it matches the original
// game's figures exactly.
func WeightedAverageCost(oldQty, oldAvgCost, totalCost, newQty int) int {
	if newQty <= 0 {
		return 0
	}
	num := oldQty*oldAvgCost + totalCost
	return (2*num + newQty) / (2 * newQty)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DailyInterest returns the interest accrued on a bank balance for one day.
func DailyInterest(bank int) int {
	if bank <= 0 {
		return 0
	}
	return bank / interestDivisor
}

// HealCost returns the hospital fee for a full restoration.
func HealCost(health int) int {
	return (MaxHealth - health) * 10
}

// LeaveoutCount returns how many goods are hidden from the market given
// the number of days remaining (inclusive of today). The full catalog is
// on offer during the last two days.
func LeaveoutCount(daysLeft int) int {
	if daysLeft <= FullMarketWindow {
		return 0
	}
	return NormalLeaveout
}
