package engine

import (
	"fmt"

	"github.com/meltforce/ironcycle/internal/models"
)

// Plate is one denomination from a fixed inventory. Height and Color are
// display hints for the client's bar rendering and play no part in the
// loading math.
type Plate struct {
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// Standard inventories, heaviest first. The greedy loader below is only
// correct because these denominations are canonical (each plate weighs at
// least as much as any combination of smaller ones it displaces); changing
// the inventory requires re-checking that property.
var (
	poundPlates = []Plate{
		{Weight: 45, Height: 1.0, Color: "blue"},
		{Weight: 35, Height: 0.9, Color: "yellow"},
		{Weight: 25, Height: 0.8, Color: "green"},
		{Weight: 10, Height: 0.6, Color: "white"},
		{Weight: 5, Height: 0.45, Color: "black"},
		{Weight: 2.5, Height: 0.35, Color: "silver"},
	}

	// IPF calibrated kilogram plates.
	kiloPlates = []Plate{
		{Weight: 25, Height: 1.0, Color: "red"},
		{Weight: 20, Height: 1.0, Color: "blue"},
		{Weight: 15, Height: 0.9, Color: "yellow"},
		{Weight: 10, Height: 0.8, Color: "green"},
		{Weight: 5, Height: 0.55, Color: "white"},
		{Weight: 2.5, Height: 0.4, Color: "black"},
		{Weight: 1.25, Height: 0.3, Color: "silver"},
	}
)

// Inventory returns the plate set for a unit system, heaviest first.
func Inventory(unit models.UnitSystem) []Plate {
	if unit == models.UnitKilograms {
		return kiloPlates
	}
	return poundPlates
}

// PlateResult is the decomposition of a target weight into a per-side
// loadout. PerSide is ordered heaviest first, matching physical loading
// order. Remainder is the per-side weight that could not be loaded,
// rounded to one decimal; Exact means the remainder is zero.
type PlateResult struct {
	Target    float64 `json:"target"`
	BarWeight float64 `json:"bar_weight"`
	PerSide   []Plate `json:"per_side"`
	Remainder float64 `json:"remainder"`
	Exact     bool    `json:"exact"`
	BarOnly   bool    `json:"bar_only"`
}

// CalculatePlates decomposes target into a greedy largest-first per-side
// loadout for the given unit system. barWeight <= 0 selects the unit's
// standard bar. A target at or below the bar weight loads the bar only.
func CalculatePlates(target, barWeight float64, unit models.UnitSystem) (*PlateResult, error) {
	if target < 0 {
		return nil, fmt.Errorf("target weight must not be negative, got %g", target)
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("unknown unit system %q", unit)
	}
	if barWeight <= 0 {
		barWeight = unit.BarWeight()
	}

	res := &PlateResult{Target: target, BarWeight: barWeight}
	if target <= barWeight {
		res.BarOnly = true
		res.Exact = target == barWeight || target == 0
		return res, nil
	}

	remaining := (target - barWeight) / 2
	for _, plate := range Inventory(unit) {
		for remaining >= plate.Weight {
			res.PerSide = append(res.PerSide, plate)
			remaining -= plate.Weight
		}
	}

	// Float noise from repeated subtraction would otherwise make 0.099999
	// style remainders.
	res.Remainder = RoundDecimals(remaining, 1)
	res.Exact = res.Remainder == 0
	return res, nil
}
