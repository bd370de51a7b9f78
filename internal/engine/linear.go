package engine

import "github.com/meltforce/ironcycle/internal/models"

// Linear progression defaults. Three straight failures trigger a 10%
// deload; the increment is per-unit (5 lb / 2.5 kg).
const (
	DefaultFailureThreshold = 3
	DefaultDeloadPercent    = 0.10
)

// NewLinearState seeds the state machine for one lift at a starting
// working weight.
func NewLinearState(lift string, startWeight, increment float64) models.LinearState {
	return models.LinearState{
		Lift:             lift,
		Weight:           startWeight,
		Increment:        increment,
		DeloadPercent:    DefaultDeloadPercent,
		FailureThreshold: DefaultFailureThreshold,
	}
}

// LinearOutcome describes what a logged session did to a lift's state.
type LinearOutcome struct {
	PriorWeight   float64 `json:"prior_weight"`
	NewWeight     float64 `json:"new_weight"`
	IsNewPR       bool    `json:"is_new_pr"`
	DeloadApplied bool    `json:"deload_applied"`
	DeloadPending bool    `json:"deload_pending"`
}

// snapshot saves the pre-transition state so a subsequent clear can roll
// it back exactly. One level deep: only the most recent log is undoable.
func snapshot(st *models.LinearState) {
	w, f, d := st.Weight, st.Failures, st.DeloadPending
	st.PrevWeight, st.PrevFailures, st.PrevDeloadPending = &w, &f, &d
}

// LogLinearSuccess applies a completed session: the working weight moves
// up by the increment, the failure streak resets, and any pending deload
// warning clears.
func LogLinearSuccess(st *models.LinearState) LinearOutcome {
	snapshot(st)
	prior := st.Weight
	st.Weight += st.Increment
	st.Failures = 0
	st.DeloadPending = false
	return LinearOutcome{
		PriorWeight: prior,
		NewWeight:   st.Weight,
		IsNewPR:     st.Weight > prior,
	}
}

// LogLinearFailure applies a failed session. Below the threshold the
// weight holds and the streak grows; one failure short of the threshold
// additionally raises the deload-pending warning; at the threshold the
// weight drops by the deload percent (rounded to the increment) and the
// streak resets.
func LogLinearFailure(st *models.LinearState) LinearOutcome {
	snapshot(st)
	prior := st.Weight
	st.Failures++

	if st.Failures >= st.FailureThreshold {
		st.Weight = RoundToIncrement(st.Weight*(1-st.DeloadPercent), st.Increment)
		st.Failures = 0
		st.DeloadPending = false
		return LinearOutcome{
			PriorWeight:   prior,
			NewWeight:     st.Weight,
			DeloadApplied: true,
		}
	}

	st.DeloadPending = st.Failures == st.FailureThreshold-1
	return LinearOutcome{
		PriorWeight:   prior,
		NewWeight:     st.Weight,
		DeloadPending: st.DeloadPending,
	}
}

// ClearLinearLog undoes the most recent logged outcome, restoring the
// saved pre-log state. When the snapshot is missing (external data loss)
// the state degrades to a clean unlogged streak at the current weight
// instead of failing; reports whether an exact rollback happened.
func ClearLinearLog(st *models.LinearState) bool {
	if st.PrevWeight == nil || st.PrevFailures == nil || st.PrevDeloadPending == nil {
		st.Failures = 0
		st.DeloadPending = false
		st.PrevWeight, st.PrevFailures, st.PrevDeloadPending = nil, nil, nil
		return false
	}
	st.Weight = *st.PrevWeight
	st.Failures = *st.PrevFailures
	st.DeloadPending = *st.PrevDeloadPending
	st.PrevWeight, st.PrevFailures, st.PrevDeloadPending = nil, nil, nil
	return true
}
