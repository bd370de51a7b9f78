package engine

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestEstimateRepMax_ReferenceValues checks each formula against hand
// computed reference values for a 100x5 set.
func TestEstimateRepMax_ReferenceValues(t *testing.T) {
	est, err := EstimateRepMax(100, 5)
	if err != nil {
		t.Fatalf("EstimateRepMax(100, 5): %v", err)
	}

	cases := []struct {
		formula string
		want    float64
	}{
		{FormulaEpley, 100 * (1 + 5.0/30)},                                      // 116.67
		{FormulaBrzycki, 100 * (36.0 / 32.0)},                                   // 112.5
		{FormulaLombardi, 100 * math.Pow(5, 0.10)},                              // ~117.46
		{FormulaOConner, 100 * 1.125},                                           // 112.5
		{FormulaMayhew, 100 * (100 / (52.2 + 41.9*math.Exp(-0.055*5)))},
		{FormulaWathan, 100 * (100 / (48.8 + 53.8*math.Exp(-0.075*5)))},
	}
	for _, tc := range cases {
		got, ok := est.Formulas[tc.formula]
		if !ok {
			t.Fatalf("formula %q missing from estimate", tc.formula)
		}
		if !almostEqual(got, tc.want, 0.01) {
			t.Errorf("%s(100, 5) = %.4f, want %.4f", tc.formula, got, tc.want)
		}
	}
}

// TestEstimateRepMax_MeanIsAverage verifies the primary estimate is the
// arithmetic mean of the six formulas.
func TestEstimateRepMax_MeanIsAverage(t *testing.T) {
	est, err := EstimateRepMax(225, 3)
	if err != nil {
		t.Fatalf("EstimateRepMax(225, 3): %v", err)
	}
	var sum float64
	for _, v := range est.Formulas {
		sum += v
	}
	want := sum / float64(len(est.Formulas))
	if !almostEqual(est.Mean, want, 1e-9) {
		t.Errorf("mean = %.6f, want %.6f", est.Mean, want)
	}
}

// TestEstimateRepMax_AllFormulasAtLeastWeight verifies every formula
// returns a value >= the lifted weight across the realistic rep range.
func TestEstimateRepMax_AllFormulasAtLeastWeight(t *testing.T) {
	for reps := 1; reps <= 12; reps++ {
		est, err := EstimateRepMax(150, reps)
		if err != nil {
			t.Fatalf("EstimateRepMax(150, %d): %v", reps, err)
		}
		for name, v := range est.Formulas {
			if v < 150-0.01 {
				t.Errorf("%s(150, %d) = %.2f, below the lifted weight", name, reps, v)
			}
			if v <= 0 {
				t.Errorf("%s(150, %d) = %.2f, want positive", name, reps, v)
			}
		}
	}
}

// TestEstimateRepMax_InvalidInput verifies explicit rejection of inputs
// outside the formula domains instead of silently clamped estimates.
func TestEstimateRepMax_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		reps   int
	}{
		{"zero weight", 0, 5},
		{"negative weight", -100, 5},
		{"zero reps", 100, 0},
		{"negative reps", 100, -1},
		{"brzycki pole", 100, 37},
		{"beyond brzycki pole", 100, 40},
	}
	for _, tc := range cases {
		if _, err := EstimateRepMax(tc.weight, tc.reps); err == nil {
			t.Errorf("%s: EstimateRepMax(%g, %d) succeeded, want error", tc.name, tc.weight, tc.reps)
		}
	}
}

// TestPercentTable verifies the 100..50 step structure and that every row
// is a multiple of the increment.
func TestPercentTable(t *testing.T) {
	rows := PercentTable(300, 5)
	if len(rows) != 11 {
		t.Fatalf("table has %d rows, want 11", len(rows))
	}
	if rows[0].Percent != 100 || rows[len(rows)-1].Percent != 50 {
		t.Errorf("table spans %d%%..%d%%, want 100%%..50%%", rows[0].Percent, rows[len(rows)-1].Percent)
	}
	if rows[0].Weight != 300 {
		t.Errorf("100%% row = %g, want 300", rows[0].Weight)
	}
	for _, row := range rows {
		if rem := math.Mod(row.Weight, 5); !almostEqual(rem, 0, 1e-9) && !almostEqual(rem, 5, 1e-9) {
			t.Errorf("%d%% row %g is not a multiple of 5", row.Percent, row.Weight)
		}
	}
}
