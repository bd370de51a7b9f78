package models

import (
	"time"

	"github.com/google/uuid"
)

// Cycle is one active run of a template: its unit system, rounding
// increment, and start time. Training maxes, linear states, logs, and
// overrides all hang off a cycle and are replaced wholesale when a new
// cycle starts.
type Cycle struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID uuid.UUID  `json:"template_id"`
	Unit       UnitSystem `json:"unit"`
	Increment  float64    `json:"increment"`
	StartedAt  time.Time  `json:"started_at"`
}

// TrainingMax is the per-lift working maximum a cycle's percentage work is
// computed from. Always >= 0.
type TrainingMax struct {
	CycleID uuid.UUID `json:"cycle_id"`
	Lift    string    `json:"lift"`
	Value   float64   `json:"value"`

	// PrevValue is the value before the most recent autoregulated update,
	// kept so clearing the progression set can revert it exactly.
	PrevValue *float64 `json:"prev_value,omitempty"`
}

// LinearState is the per-lift state of the linear progression engine,
// including the one-deep rollback snapshot used by clear-log.
type LinearState struct {
	CycleID          uuid.UUID `json:"cycle_id"`
	Lift             string    `json:"lift"`
	Weight           float64   `json:"weight"`
	Failures         int       `json:"failures"`
	DeloadPending    bool      `json:"deload_pending"`
	Increment        float64   `json:"increment"`
	DeloadPercent    float64   `json:"deload_percent"`
	FailureThreshold int       `json:"failure_threshold"`

	PrevWeight        *float64 `json:"prev_weight,omitempty"`
	PrevFailures      *int     `json:"prev_failures,omitempty"`
	PrevDeloadPending *bool    `json:"prev_deload_pending,omitempty"`
}

// LiftLog records one logged exercise instance for a (week, day, lift)
// key. Structured items store per-set AMRAP reps in SetReps; simple items
// use Reps. Overwritten on re-log, deleted on explicit clear.
type LiftLog struct {
	CycleID uuid.UUID `json:"cycle_id"`
	Week    int       `json:"week"`
	Day     int       `json:"day"`
	Lift    string    `json:"lift"`

	Reps    *int        `json:"reps,omitempty"`
	SetReps map[int]int `json:"set_reps,omitempty"`
	Failed  bool        `json:"failed"`
	Note    string      `json:"note,omitempty"`

	LoggedAt time.Time `json:"logged_at"`
}

// WeightOverride replaces the computed weight for one (week, day, lift)
// occurrence without touching the underlying training max.
type WeightOverride struct {
	CycleID uuid.UUID `json:"cycle_id"`
	Week    int       `json:"week"`
	Day     int       `json:"day"`
	Lift    string    `json:"lift"`
	Weight  float64   `json:"weight"`
}

// SetArchiveRow is one historical set imported from a CSV export, kept for
// analysis tooling rather than progression state.
type SetArchiveRow struct {
	ID          uuid.UUID `json:"id"`
	SessionDate time.Time `json:"session_date"`
	Lift        string    `json:"lift"`
	SetNumber   int       `json:"set_number"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	AMRAP       bool      `json:"amrap"`
	Unit        string    `json:"unit"`
}
