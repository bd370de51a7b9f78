package engine

import "fmt"

// AdjustmentTable maps the rep delta on the progression set (actual minus
// target) to a training-max adjustment fraction. Tiers saturate on both
// ends: missing by two or more always uses Deficit2Plus and beating the
// target by five or more always uses Surplus5Plus. User-editable; the
// zero value is not usable, start from DefaultAdjustments.
type AdjustmentTable struct {
	Deficit2Plus float64 `json:"deficit_2_plus" yaml:"deficit_2_plus"`
	Deficit1     float64 `json:"deficit_1" yaml:"deficit_1"`
	Hit          float64 `json:"hit" yaml:"hit"`
	Surplus1     float64 `json:"surplus_1" yaml:"surplus_1"`
	Surplus2     float64 `json:"surplus_2" yaml:"surplus_2"`
	Surplus3     float64 `json:"surplus_3" yaml:"surplus_3"`
	Surplus4     float64 `json:"surplus_4" yaml:"surplus_4"`
	Surplus5Plus float64 `json:"surplus_5_plus" yaml:"surplus_5_plus"`
}

// DefaultAdjustments is the shipped reps-to-adjustment mapping.
var DefaultAdjustments = AdjustmentTable{
	Deficit2Plus: -0.05,
	Deficit1:     -0.02,
	Hit:          0,
	Surplus1:     0.005,
	Surplus2:     0.01,
	Surplus3:     0.015,
	Surplus4:     0.02,
	Surplus5Plus: 0.03,
}

// Validate rejects tables whose tiers are not monotonically non-decreasing
// in the rep delta; a non-monotonic table would reward missing the target.
func (t *AdjustmentTable) Validate() error {
	tiers := []float64{
		t.Deficit2Plus, t.Deficit1, t.Hit,
		t.Surplus1, t.Surplus2, t.Surplus3, t.Surplus4, t.Surplus5Plus,
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i] < tiers[i-1] {
			return fmt.Errorf("adjustment table is not monotonic at tier %d (%g < %g)", i, tiers[i], tiers[i-1])
		}
	}
	return nil
}

// Adjustment returns the TM adjustment fraction for a progression-set
// outcome.
func (t *AdjustmentTable) Adjustment(targetReps, actualReps int) float64 {
	switch delta := actualReps - targetReps; {
	case delta <= -2:
		return t.Deficit2Plus
	case delta == -1:
		return t.Deficit1
	case delta == 0:
		return t.Hit
	case delta == 1:
		return t.Surplus1
	case delta == 2:
		return t.Surplus2
	case delta == 3:
		return t.Surplus3
	case delta == 4:
		return t.Surplus4
	default:
		return t.Surplus5Plus
	}
}

// Apply computes the new training max for a logged progression set:
// tm × (1 + adjustment), floored at zero. Applied exactly once per logged
// outcome; re-logging the same set replaces the prior application, which
// the caller handles by reverting to the stored pre-log value first.
func (t *AdjustmentTable) Apply(trainingMax float64, targetReps, actualReps int) float64 {
	next := trainingMax * (1 + t.Adjustment(targetReps, actualReps))
	if next < 0 {
		return 0
	}
	return next
}
