package engine

import (
	"math"
	"testing"
)

// TestAdjustment_DefaultTiers verifies every tier of the shipped
// adjustment table against its documented default.
func TestAdjustment_DefaultTiers(t *testing.T) {
	cases := []struct {
		name   string
		target int
		actual int
		want   float64
	}{
		{"deficit of 3", 5, 2, -0.05},
		{"deficit of 2", 5, 3, -0.05},
		{"deficit of 1", 5, 4, -0.02},
		{"hit target", 5, 5, 0},
		{"beat by 1", 5, 6, 0.005},
		{"beat by 2", 5, 7, 0.01},
		{"beat by 3", 5, 8, 0.015},
		{"beat by 4", 5, 9, 0.02},
		{"beat by 5", 5, 10, 0.03},
		{"beat by 8 saturates", 5, 13, 0.03},
	}
	for _, tc := range cases {
		if got := DefaultAdjustments.Adjustment(tc.target, tc.actual); got != tc.want {
			t.Errorf("%s: adjustment(%d, %d) = %g, want %g", tc.name, tc.target, tc.actual, got, tc.want)
		}
	}
}

// TestAdjustment_Apply verifies the TM multiplication and the zero floor.
func TestAdjustment_Apply(t *testing.T) {
	if got := DefaultAdjustments.Apply(300, 5, 5); got != 300 {
		t.Errorf("hit target moved the TM: %g", got)
	}
	if got := DefaultAdjustments.Apply(300, 5, 10); math.Abs(got-309) > 1e-9 {
		t.Errorf("beat by 5: TM = %g, want 309", got)
	}
	if got := DefaultAdjustments.Apply(300, 5, 3); math.Abs(got-285) > 1e-9 {
		t.Errorf("deficit of 2: TM = %g, want 285", got)
	}

	harsh := DefaultAdjustments
	harsh.Deficit2Plus = -1.5
	if got := harsh.Apply(100, 5, 1); got != 0 {
		t.Errorf("TM went below zero: %g", got)
	}
}

// TestAdjustmentTable_Validate verifies monotonicity enforcement on
// user-edited tables.
func TestAdjustmentTable_Validate(t *testing.T) {
	if err := DefaultAdjustments.Validate(); err != nil {
		t.Fatalf("default table rejected: %v", err)
	}

	bad := DefaultAdjustments
	bad.Surplus3 = 0.001 // below Surplus2
	if err := bad.Validate(); err == nil {
		t.Error("non-monotonic table accepted")
	}

	bad = DefaultAdjustments
	bad.Deficit1 = -0.10 // below Deficit2Plus
	if err := bad.Validate(); err == nil {
		t.Error("inverted deficit tiers accepted")
	}
}
