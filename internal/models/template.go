package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Day item types. The type tag decides which progression rule applies when
// the item is logged and how the planner computes its weight.
const (
	ItemTMDisplay  = "tm_display" // shows the training max plus a suggested top single
	ItemVolume     = "volume"     // percentage work off the TM, last set AMRAP drives progression
	ItemStructured = "structured" // multi-set percentage work with a designated progression set
	ItemAccessory  = "accessory"  // freeform assistance work, no TM reference
	ItemLinear     = "linear"     // fixed-weight work driven by the linear progression engine
)

// DisplayMode controls how the mobile client renders a template.
const (
	DisplaySimple   = "simple"
	DisplayAdvanced = "advanced"
)

// SetDetail is one prescribed set: an intensity fraction of the training
// max, a target rep count, and whether the set is taken AMRAP.
type SetDetail struct {
	Intensity float64 `json:"intensity" yaml:"intensity"`
	Reps      int     `json:"reps" yaml:"reps"`
	AMRAP     bool    `json:"amrap,omitempty" yaml:"amrap,omitempty"`
}

// DayItem is one exercise's static configuration within a day.
type DayItem struct {
	Type string `json:"type" yaml:"type"`
	Lift string `json:"lift" yaml:"lift"`

	// Sets is the ordered set design. Empty for tm_display and accessory
	// items.
	Sets []SetDetail `json:"sets,omitempty" yaml:"sets,omitempty"`

	// ProgressionSet is the index into Sets whose AMRAP outcome drives the
	// training-max update for structured items. Volume items progress off
	// their final set.
	ProgressionSet int `json:"progression_set,omitempty" yaml:"progression_set,omitempty"`
}

// tracksMax reports whether this item type requires a training max.
func (it *DayItem) tracksMax() bool {
	switch it.Type {
	case ItemTMDisplay, ItemVolume, ItemStructured, ItemLinear:
		return true
	}
	return false
}

// ProgressionSetIndex returns the set index that feeds the autoregulated
// progression for this item: the designated set for structured items, the
// last set for volume items, and -1 for everything else.
func (it *DayItem) ProgressionSetIndex() int {
	switch it.Type {
	case ItemStructured:
		return it.ProgressionSet
	case ItemVolume:
		return len(it.Sets) - 1
	}
	return -1
}

// Template is a user-authored workout plan: an ordered list of day items
// per day number (1..DaysPerWeek), repeated for Weeks weeks.
type Template struct {
	ID          uuid.UUID         `json:"id" yaml:"-"`
	Name        string            `json:"name" yaml:"name"`
	DaysPerWeek int               `json:"days_per_week" yaml:"days_per_week"`
	Weeks       int               `json:"weeks" yaml:"weeks"`
	DisplayMode string            `json:"display_mode,omitempty" yaml:"display_mode,omitempty"`
	Days        map[int][]DayItem `json:"days" yaml:"days"`
}

// TrackedLifts returns the sorted set of lift names that need a training
// max before the template can run.
func (t *Template) TrackedLifts() []string {
	seen := map[string]bool{}
	for _, items := range t.Days {
		for i := range items {
			it := &items[i]
			if it.tracksMax() && it.Lift != "" {
				seen[it.Lift] = true
			}
		}
	}
	lifts := make([]string, 0, len(seen))
	for lift := range seen {
		lifts = append(lifts, lift)
	}
	sort.Strings(lifts)
	return lifts
}

// LinearLifts returns the sorted lift names driven by linear progression.
func (t *Template) LinearLifts() []string {
	seen := map[string]bool{}
	for _, items := range t.Days {
		for i := range items {
			if items[i].Type == ItemLinear && items[i].Lift != "" {
				seen[items[i].Lift] = true
			}
		}
	}
	lifts := make([]string, 0, len(seen))
	for lift := range seen {
		lifts = append(lifts, lift)
	}
	sort.Strings(lifts)
	return lifts
}

// Validate checks the structural invariants a template must satisfy before
// the planner will run against it. Returns an ordered list of
// human-readable problems; an empty list means the template is usable.
func (t *Template) Validate() []string {
	var problems []string

	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "template name must not be empty")
	}
	if t.DaysPerWeek < 1 || t.DaysPerWeek > 7 {
		problems = append(problems, fmt.Sprintf("days per week must be between 1 and 7, got %d", t.DaysPerWeek))
	}
	if t.Weeks < 1 {
		problems = append(problems, fmt.Sprintf("week count must be at least 1, got %d", t.Weeks))
	}

	for day := range t.Days {
		if day < 1 || day > t.DaysPerWeek {
			problems = append(problems, fmt.Sprintf("day %d is outside the schedule (days per week is %d)", day, t.DaysPerWeek))
		}
	}

	totalItems := 0
	for day := 1; day <= t.DaysPerWeek && t.DaysPerWeek <= 7; day++ {
		items := t.Days[day]
		totalItems += len(items)
		for i := range items {
			problems = append(problems, validateItem(day, i, &items[i])...)
		}
	}
	if totalItems == 0 {
		problems = append(problems, "template has no exercises on any day")
	}

	return problems
}

func validateItem(day, idx int, it *DayItem) []string {
	var problems []string
	where := fmt.Sprintf("day %d exercise %d", day, idx+1)

	switch it.Type {
	case ItemTMDisplay, ItemVolume, ItemStructured, ItemAccessory, ItemLinear:
	default:
		problems = append(problems, fmt.Sprintf("%s: unknown item type %q", where, it.Type))
		return problems
	}

	if it.Lift == "" {
		problems = append(problems, fmt.Sprintf("%s: lift name must not be empty", where))
	}

	if it.Type == ItemVolume || it.Type == ItemStructured {
		if len(it.Sets) == 0 {
			problems = append(problems, fmt.Sprintf("%s: %s item needs at least one set", where, it.Type))
		}
	}
	if it.Type == ItemStructured && (it.ProgressionSet < 0 || it.ProgressionSet >= len(it.Sets)) {
		problems = append(problems, fmt.Sprintf("%s: progression set index %d is out of range", where, it.ProgressionSet))
	}

	// Intensity is only meaningful for percentage work; accessory and
	// linear sets carry no TM fraction and may omit it.
	percentage := it.Type == ItemVolume || it.Type == ItemStructured
	for si, set := range it.Sets {
		if percentage && (set.Intensity <= 0 || set.Intensity > 1) {
			problems = append(problems, fmt.Sprintf("%s set %d: intensity %.2f must be within (0, 1]", where, si+1, set.Intensity))
		}
		if set.Reps < 1 {
			problems = append(problems, fmt.Sprintf("%s set %d: reps must be at least 1, got %d", where, si+1, set.Reps))
		}
	}

	return problems
}
