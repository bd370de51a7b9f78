package engine

import (
	"fmt"

	"github.com/meltforce/ironcycle/internal/models"
)

// TopSinglePercent is the suggested heavy single shown for tm_display
// items, as a fraction of the training max.
const TopSinglePercent = 0.90

// ResolvedSet is one concrete prescribed set of a day plan.
type ResolvedSet struct {
	Index     int     `json:"index"`
	Intensity float64 `json:"intensity,omitempty"`
	Reps      int     `json:"reps"`
	AMRAP     bool    `json:"amrap,omitempty"`

	// Weight is the prescription, a multiple of the rounding increment.
	// Absent (Computed=false) for accessory items and for lifts with no
	// usable training max.
	Weight      float64 `json:"weight,omitempty"`
	Computed    bool    `json:"computed"`
	Progression bool    `json:"progression,omitempty"`
}

// ResolvedItem is one exercise of a resolved day plan.
type ResolvedItem struct {
	Type string `json:"type"`
	Lift string `json:"lift"`

	TrainingMax *float64 `json:"training_max,omitempty"`
	TopSingle   *float64 `json:"top_single,omitempty"`

	Sets       []ResolvedSet `json:"sets,omitempty"`
	Overridden bool          `json:"overridden,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// PlanInput carries the cycle state the resolver reads. Overrides are
// keyed by lift and scoped by the caller to the requested (week, day).
type PlanInput struct {
	TrainingMaxes map[string]float64
	LinearWeights map[string]float64
	Overrides     map[string]float64
	Increment     float64
}

// ResolveDay turns day N of a template plus current cycle state into
// concrete prescriptions. Refuses invalid templates and out-of-range days
// outright rather than producing partial output.
func ResolveDay(tpl *models.Template, day int, in PlanInput) ([]ResolvedItem, error) {
	if problems := tpl.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("template %q is invalid: %s", tpl.Name, problems[0])
	}
	if day < 1 || day > tpl.DaysPerWeek {
		return nil, fmt.Errorf("day %d is outside the schedule (days per week is %d)", day, tpl.DaysPerWeek)
	}

	items := tpl.Days[day]
	resolved := make([]ResolvedItem, 0, len(items))
	for i := range items {
		resolved = append(resolved, resolveItem(&items[i], in))
	}
	return resolved, nil
}

func resolveItem(it *models.DayItem, in PlanInput) ResolvedItem {
	out := ResolvedItem{Type: it.Type, Lift: it.Lift}

	switch it.Type {
	case models.ItemAccessory:
		// No TM reference; weight is whatever was last manually logged,
		// which lives with the log history, not the plan.
		for si, set := range it.Sets {
			out.Sets = append(out.Sets, ResolvedSet{Index: si, Reps: set.Reps, AMRAP: set.AMRAP})
		}
		return out

	case models.ItemTMDisplay:
		tm, ok := in.TrainingMaxes[it.Lift]
		if !ok || tm <= 0 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("no training max for %q", it.Lift))
			return out
		}
		top := RoundToIncrement(tm*TopSinglePercent, in.Increment)
		out.TrainingMax = &tm
		out.TopSingle = &top
		return out

	case models.ItemLinear:
		weight, ok := in.LinearWeights[it.Lift]
		if override, has := in.Overrides[it.Lift]; has {
			weight, ok = override, true
			out.Overridden = true
		}
		if !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("no linear progression state for %q", it.Lift))
		}
		for si, set := range it.Sets {
			rs := ResolvedSet{Index: si, Reps: set.Reps, AMRAP: set.AMRAP}
			if ok {
				rs.Weight = RoundToIncrement(weight, in.Increment)
				rs.Computed = true
			}
			out.Sets = append(out.Sets, rs)
		}
		return out
	}

	// volume / structured: percentage work off the training max.
	tm, hasTM := in.TrainingMaxes[it.Lift]
	if !hasTM || tm <= 0 {
		// Documented fallback: unknown lift behaves as TM=0, which
		// disables the weight computation and surfaces a warning.
		tm, hasTM = 0, false
		out.Warnings = append(out.Warnings, fmt.Sprintf("no training max for %q", it.Lift))
	} else {
		out.TrainingMax = &tm
	}

	override, hasOverride := in.Overrides[it.Lift]
	out.Overridden = hasOverride
	progression := it.ProgressionSetIndex()

	for si, set := range it.Sets {
		rs := ResolvedSet{
			Index:       si,
			Intensity:   set.Intensity,
			Reps:        set.Reps,
			AMRAP:       set.AMRAP,
			Progression: si == progression,
		}
		switch {
		case hasOverride:
			rs.Weight = RoundToIncrement(override, in.Increment)
			rs.Computed = true
		case hasTM:
			rs.Weight = RoundToIncrement(tm*set.Intensity, in.Increment)
			rs.Computed = true
		}
		out.Sets = append(out.Sets, rs)
	}
	return out
}
