package engine

import (
	"testing"

	"github.com/meltforce/ironcycle/internal/models"
)

// TestCalculatePlates_ExactPoundLoad verifies the canonical 225 lb case:
// one 45 per side, exact.
func TestCalculatePlates_ExactPoundLoad(t *testing.T) {
	res, err := CalculatePlates(225, 45, models.UnitPounds)
	if err != nil {
		t.Fatalf("CalculatePlates(225, 45, lb): %v", err)
	}
	if len(res.PerSide) != 2 {
		t.Fatalf("per side = %d plates, want 2", len(res.PerSide))
	}
	if res.PerSide[0].Weight != 45 || res.PerSide[1].Weight != 45 {
		t.Errorf("per side = [%g %g], want [45 45]", res.PerSide[0].Weight, res.PerSide[1].Weight)
	}
	if !res.Exact || res.Remainder != 0 {
		t.Errorf("exact = %v remainder = %g, want exact with zero remainder", res.Exact, res.Remainder)
	}
}

// TestCalculatePlates_BarOnly verifies that a target at or below the bar
// weight loads no plates.
func TestCalculatePlates_BarOnly(t *testing.T) {
	for _, target := range []float64{47, 45, 20, 0} {
		res, err := CalculatePlates(target, 45, models.UnitPounds)
		if err != nil {
			t.Fatalf("CalculatePlates(%g, 45, lb): %v", target, err)
		}
		if !res.BarOnly {
			t.Errorf("target %g: bar_only = false, want true", target)
		}
		if len(res.PerSide) != 0 {
			t.Errorf("target %g: %d plates loaded, want none", target, len(res.PerSide))
		}
	}
}

// TestCalculatePlates_DescendingOrder verifies the physical loading order
// contract: heaviest plate first.
func TestCalculatePlates_DescendingOrder(t *testing.T) {
	res, err := CalculatePlates(302.5, 45, models.UnitPounds)
	if err != nil {
		t.Fatalf("CalculatePlates(302.5, 45, lb): %v", err)
	}
	for i := 1; i < len(res.PerSide); i++ {
		if res.PerSide[i].Weight > res.PerSide[i-1].Weight {
			t.Fatalf("plates out of order at %d: %g after %g", i, res.PerSide[i].Weight, res.PerSide[i-1].Weight)
		}
	}
}

// TestCalculatePlates_RoundTrip verifies bar + 2*(plates + remainder)
// reconstructs the target for a spread of achievable and inexact loads.
func TestCalculatePlates_RoundTrip(t *testing.T) {
	cases := []struct {
		target float64
		unit   models.UnitSystem
		bar    float64
	}{
		{135, models.UnitPounds, 45},
		{225, models.UnitPounds, 45},
		{315, models.UnitPounds, 45},
		{317.5, models.UnitPounds, 45},
		{46.2, models.UnitPounds, 45},
		{100, models.UnitKilograms, 20},
		{142.5, models.UnitKilograms, 20},
		{61.3, models.UnitKilograms, 20},
	}
	for _, tc := range cases {
		res, err := CalculatePlates(tc.target, tc.bar, tc.unit)
		if err != nil {
			t.Fatalf("CalculatePlates(%g, %g, %s): %v", tc.target, tc.bar, tc.unit, err)
		}
		if res.BarOnly {
			continue
		}
		var perSide float64
		for _, p := range res.PerSide {
			perSide += p.Weight
		}
		total := RoundDecimals(tc.bar+2*(perSide+res.Remainder), 1)
		if total != RoundDecimals(tc.target, 1) {
			t.Errorf("target %g %s: reconstructed %g", tc.target, tc.unit, total)
		}
	}
}

// TestCalculatePlates_KilogramInventory verifies the kg inventory resolves
// a classic 142.5 kg load: 25+25+10+1.25 per side.
func TestCalculatePlates_KilogramInventory(t *testing.T) {
	res, err := CalculatePlates(142.5, 20, models.UnitKilograms)
	if err != nil {
		t.Fatalf("CalculatePlates(142.5, 20, kg): %v", err)
	}
	want := []float64{25, 25, 10, 1.25}
	if len(res.PerSide) != len(want) {
		t.Fatalf("per side = %d plates, want %d", len(res.PerSide), len(want))
	}
	for i, w := range want {
		if res.PerSide[i].Weight != w {
			t.Errorf("plate %d = %g, want %g", i, res.PerSide[i].Weight, w)
		}
	}
	if !res.Exact {
		t.Errorf("exact = false, want true (remainder %g)", res.Remainder)
	}
}

// TestCalculatePlates_InexactRemainder verifies sub-plate leftovers are
// reported per side, rounded to one decimal.
func TestCalculatePlates_InexactRemainder(t *testing.T) {
	res, err := CalculatePlates(227, 45, models.UnitPounds)
	if err != nil {
		t.Fatalf("CalculatePlates(227, 45, lb): %v", err)
	}
	if res.Exact {
		t.Fatal("exact = true, want false")
	}
	if res.Remainder != 1 {
		t.Errorf("remainder = %g, want 1 (per side)", res.Remainder)
	}
}

// TestCalculatePlates_Rejections verifies invalid input handling.
func TestCalculatePlates_Rejections(t *testing.T) {
	if _, err := CalculatePlates(-5, 45, models.UnitPounds); err == nil {
		t.Error("negative target accepted, want error")
	}
	if _, err := CalculatePlates(100, 45, "stone"); err == nil {
		t.Error("unknown unit accepted, want error")
	}
}
