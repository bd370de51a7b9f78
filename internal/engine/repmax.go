package engine

import (
	"fmt"
	"math"
)

// Named one-rep-max estimation formulas.
const (
	FormulaEpley    = "epley"
	FormulaBrzycki  = "brzycki"
	FormulaLombardi = "lombardi"
	FormulaMayhew   = "mayhew"
	FormulaOConner  = "oconner"
	FormulaWathan   = "wathan"
)

// RepMaxEstimate holds the per-formula e1RM values for a (weight, reps)
// pair plus their arithmetic mean, which is the number the app surfaces.
type RepMaxEstimate struct {
	Weight   float64            `json:"weight"`
	Reps     int                `json:"reps"`
	Formulas map[string]float64 `json:"formulas"`
	Mean     float64            `json:"mean"`
}

// brzyckiMaxReps is the pole of the Brzycki formula (36/(37-R)); estimates
// are rejected at or beyond it.
const brzyckiMaxReps = 37

// EstimateRepMax computes all six named e1RM formulas for a submaximal set.
// Rejects weight <= 0, reps < 1, and reps >= 37 (Brzycki domain) rather
// than returning plausible-but-wrong numbers.
func EstimateRepMax(weight float64, reps int) (*RepMaxEstimate, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %g", weight)
	}
	if reps < 1 {
		return nil, fmt.Errorf("reps must be at least 1, got %d", reps)
	}
	if reps >= brzyckiMaxReps {
		return nil, fmt.Errorf("reps must be below %d, got %d", brzyckiMaxReps, reps)
	}

	r := float64(reps)
	formulas := map[string]float64{
		FormulaEpley:    weight * (1 + r/30),
		FormulaBrzycki:  weight * (36 / (37 - r)),
		FormulaLombardi: weight * math.Pow(r, 0.10),
		FormulaMayhew:   weight * (100 / (52.2 + 41.9*math.Exp(-0.055*r))),
		FormulaOConner:  weight * (1 + 0.025*r),
		FormulaWathan:   weight * (100 / (48.8 + 53.8*math.Exp(-0.075*r))),
	}

	var sum float64
	for _, v := range formulas {
		sum += v
	}

	return &RepMaxEstimate{
		Weight:   weight,
		Reps:     reps,
		Formulas: formulas,
		Mean:     sum / float64(len(formulas)),
	}, nil
}

// PercentRow is one line of a training-percentage table.
type PercentRow struct {
	Percent int     `json:"percent"`
	Weight  float64 `json:"weight"`
}

// PercentTable derives a 100%..50% table (5% steps) from an e1RM, each row
// rounded to the display increment.
func PercentTable(oneRepMax, increment float64) []PercentRow {
	rows := make([]PercentRow, 0, 11)
	for pct := 100; pct >= 50; pct -= 5 {
		rows = append(rows, PercentRow{
			Percent: pct,
			Weight:  RoundToIncrement(oneRepMax*float64(pct)/100, increment),
		})
	}
	return rows
}
