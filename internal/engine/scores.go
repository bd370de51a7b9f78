package engine

import (
	"fmt"
	"math"

	"github.com/meltforce/ironcycle/internal/models"
)

// Published coefficient sets for the bodyweight-normalization formulas.
// Ported verbatim; bodyweight and total are in kilograms throughout.
var (
	wilksMale   = [6]float64{-216.0475144, 16.2606339, -0.002388645, -0.00113732, 7.01863e-06, -1.291e-08}
	wilksFemale = [6]float64{594.31747775582, -27.23842536447, 0.82112226871, -0.00930733913, 4.731582e-05, -9.054e-08}

	dotsMale   = [5]float64{-307.75076, 24.0900756, -0.1918759221, 0.0007391293, -0.000001093}
	dotsFemale = [5]float64{-57.96288, 13.6175032, -0.1126655495, 0.0005158568, -0.0000010706}

	ipfGLMale   = [3]float64{1199.72839, 1025.18162, 0.00921}
	ipfGLFemale = [3]float64{610.32796, 1045.59282, 0.03048}
)

func validateScoreInput(bodyweightKg, totalKg float64, sex models.Sex) error {
	if bodyweightKg <= 0 {
		return fmt.Errorf("bodyweight must be positive, got %g", bodyweightKg)
	}
	if totalKg <= 0 {
		return fmt.Errorf("total must be positive, got %g", totalKg)
	}
	if !sex.Valid() {
		return fmt.Errorf("unknown sex category %q", sex)
	}
	return nil
}

// WilksScore computes the WILKS score. Returns ok=false when the
// polynomial denominator degenerates (non-positive), which cannot happen
// for realistic adult bodyweights but is guarded rather than crashed on.
func WilksScore(bodyweightKg, totalKg float64, sex models.Sex) (float64, bool, error) {
	if err := validateScoreInput(bodyweightKg, totalKg, sex); err != nil {
		return 0, false, err
	}
	c := wilksMale
	if sex == models.SexFemale {
		c = wilksFemale
	}
	x := bodyweightKg
	denom := c[0] + c[1]*x + c[2]*x*x + c[3]*x*x*x + c[4]*x*x*x*x + c[5]*x*x*x*x*x
	if denom <= 0 {
		return 0, false, nil
	}
	return totalKg * 500 / denom, true, nil
}

// DotsScore computes the DOTS score, the modernized WILKS replacement.
func DotsScore(bodyweightKg, totalKg float64, sex models.Sex) (float64, bool, error) {
	if err := validateScoreInput(bodyweightKg, totalKg, sex); err != nil {
		return 0, false, err
	}
	c := dotsMale
	if sex == models.SexFemale {
		c = dotsFemale
	}
	x := bodyweightKg
	denom := c[0] + c[1]*x + c[2]*x*x + c[3]*x*x*x + c[4]*x*x*x*x
	if denom <= 0 {
		return 0, false, nil
	}
	return totalKg * 500 / denom, true, nil
}

// IPFGLPoints computes IPF GL points (classic raw powerlifting).
func IPFGLPoints(bodyweightKg, totalKg float64, sex models.Sex) (float64, bool, error) {
	if err := validateScoreInput(bodyweightKg, totalKg, sex); err != nil {
		return 0, false, err
	}
	c := ipfGLMale
	if sex == models.SexFemale {
		c = ipfGLFemale
	}
	denom := c[0] - c[1]*math.Exp(-c[2]*bodyweightKg)
	if denom <= 0 {
		return 0, false, nil
	}
	return totalKg * 100 / denom, true, nil
}
