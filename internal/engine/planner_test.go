package engine

import (
	"math"
	"testing"

	"github.com/meltforce/ironcycle/internal/models"
)

func testTemplate() *models.Template {
	return &models.Template{
		Name:        "4-Day Strength",
		DaysPerWeek: 2,
		Weeks:       4,
		Days: map[int][]models.DayItem{
			1: {
				{Type: models.ItemTMDisplay, Lift: "squat"},
				{Type: models.ItemStructured, Lift: "squat", ProgressionSet: 2, Sets: []models.SetDetail{
					{Intensity: 0.65, Reps: 5},
					{Intensity: 0.75, Reps: 5},
					{Intensity: 0.85, Reps: 5, AMRAP: true},
				}},
				{Type: models.ItemAccessory, Lift: "leg press", Sets: []models.SetDetail{
					{Intensity: 0.5, Reps: 12},
				}},
			},
			2: {
				{Type: models.ItemVolume, Lift: "bench", Sets: []models.SetDetail{
					{Intensity: 0.7, Reps: 8},
					{Intensity: 0.7, Reps: 8, AMRAP: true},
				}},
				{Type: models.ItemLinear, Lift: "row", Sets: []models.SetDetail{
					{Intensity: 1, Reps: 10},
					{Intensity: 1, Reps: 10},
				}},
			},
		},
	}
}

// TestResolveDay_StructuredWeights verifies percentage prescriptions are
// TM x intensity rounded to the increment, with the progression set
// marked.
func TestResolveDay_StructuredWeights(t *testing.T) {
	items, err := ResolveDay(testTemplate(), 1, PlanInput{
		TrainingMaxes: map[string]float64{"squat": 315, "bench": 200},
		Increment:     5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("resolved %d items, want 3", len(items))
	}

	structured := items[1]
	wants := []float64{205, 235, 270} // 315 x .65/.75/.85, half-up to 5s
	for i, want := range wants {
		set := structured.Sets[i]
		if !set.Computed {
			t.Fatalf("set %d not computed", i)
		}
		if set.Weight != want {
			t.Errorf("set %d weight = %g, want %g", i, set.Weight, want)
		}
		if rem := math.Mod(set.Weight, 5); rem != 0 {
			t.Errorf("set %d weight %g not a multiple of 5", i, set.Weight)
		}
		if got := set.Progression; got != (i == 2) {
			t.Errorf("set %d progression = %v", i, got)
		}
	}
}

// TestResolveDay_TMDisplay verifies the TM item carries the max and a 90%
// top single on the increment grid.
func TestResolveDay_TMDisplay(t *testing.T) {
	items, err := ResolveDay(testTemplate(), 1, PlanInput{
		TrainingMaxes: map[string]float64{"squat": 315, "bench": 200},
		Increment:     5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	tm := items[0]
	if tm.TrainingMax == nil || *tm.TrainingMax != 315 {
		t.Fatalf("training max = %v, want 315", tm.TrainingMax)
	}
	// 315 * 0.9 = 283.5, half-up to the 5s grid = 285.
	if tm.TopSingle == nil || *tm.TopSingle != 285 {
		t.Errorf("top single = %v, want 285", tm.TopSingle)
	}
}

// TestResolveDay_AccessoryHasNoComputedWeight verifies accessory items
// carry reps but never a computed prescription.
func TestResolveDay_AccessoryHasNoComputedWeight(t *testing.T) {
	items, err := ResolveDay(testTemplate(), 1, PlanInput{
		TrainingMaxes: map[string]float64{"squat": 315},
		Increment:     5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	acc := items[2]
	if len(acc.Sets) != 1 || acc.Sets[0].Computed {
		t.Errorf("accessory sets = %+v, want one uncomputed set", acc.Sets)
	}
}

// TestResolveDay_OverrideReplacesComputedWeight verifies a weight
// override replaces every computed set for that lift without touching the
// stored TM.
func TestResolveDay_OverrideReplacesComputedWeight(t *testing.T) {
	maxes := map[string]float64{"squat": 315, "bench": 200}
	items, err := ResolveDay(testTemplate(), 1, PlanInput{
		TrainingMaxes: maxes,
		Overrides:     map[string]float64{"squat": 225},
		Increment:     5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}

	structured := items[1]
	if !structured.Overridden {
		t.Fatal("item not marked overridden")
	}
	for i, set := range structured.Sets {
		if set.Weight != 225 {
			t.Errorf("set %d weight = %g, want override 225", i, set.Weight)
		}
	}
	if maxes["squat"] != 315 {
		t.Errorf("training max mutated to %g", maxes["squat"])
	}
}

// TestResolveDay_MissingTrainingMax verifies the documented fallback: no
// TM disables the weight computation and surfaces a warning.
func TestResolveDay_MissingTrainingMax(t *testing.T) {
	items, err := ResolveDay(testTemplate(), 2, PlanInput{
		TrainingMaxes: map[string]float64{"squat": 315},
		LinearWeights: map[string]float64{"row": 135},
		Increment:     5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}

	volume := items[0]
	if len(volume.Warnings) == 0 {
		t.Error("no warning for the missing bench training max")
	}
	for i, set := range volume.Sets {
		if set.Computed {
			t.Errorf("set %d computed without a training max", i)
		}
	}
}

// TestResolveDay_LinearUsesWorkingWeight verifies linear items prescribe
// the state machine's current weight for every set.
func TestResolveDay_LinearUsesWorkingWeight(t *testing.T) {
	items, err := ResolveDay(testTemplate(), 2, PlanInput{
		TrainingMaxes: map[string]float64{"bench": 200},
		LinearWeights: map[string]float64{"row": 137},
		Increment:     2.5,
	})
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	linear := items[1]
	for i, set := range linear.Sets {
		if !set.Computed || set.Weight != 137.5 {
			t.Errorf("set %d = %+v, want computed 137.5", i, set)
		}
	}
}

// TestResolveDay_RefusesInvalidTemplate verifies fail-fast behavior
// against a structurally invalid template.
func TestResolveDay_RefusesInvalidTemplate(t *testing.T) {
	tpl := testTemplate()
	tpl.Days[1][1].Sets[0].Intensity = 1.5

	if _, err := ResolveDay(tpl, 1, PlanInput{Increment: 5}); err == nil {
		t.Error("invalid template resolved without error")
	}

	if _, err := ResolveDay(testTemplate(), 9, PlanInput{Increment: 5}); err == nil {
		t.Error("out-of-range day resolved without error")
	}
}
