package program

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/storage"
)

// LogLinearOutcome records a linear-progression session for a (week, day,
// lift) key and applies the state transition: success increments the
// working weight, failure counts toward the deload threshold. The outcome
// describes the weight movement for the client's PR/deload banners.
func (s *Service) LogLinearOutcome(ctx context.Context, cycleID uuid.UUID, lift string, week, day int, success bool, note string) (*engine.LinearOutcome, error) {
	st, err := s.store.GetLinearState(ctx, cycleID, lift)
	if err != nil {
		if errIsNotFound(err) {
			return nil, fmt.Errorf("no linear progression state for %q", lift)
		}
		return nil, err
	}

	// Re-logging the same key replays from the pre-log state so the end
	// state matches a direct log of the new outcome. The rollback snapshot
	// is one deep and belongs to the lift's most recent transition, so the
	// replay only fires when this key holds that transition; re-logging an
	// older key overwrites its row and transitions from the current state.
	prior, err := s.store.GetLiftLog(ctx, cycleID, week, day, lift)
	if err != nil && !errIsNotFound(err) {
		return nil, err
	}
	if prior != nil {
		latest, err := s.keyHoldsLatestLog(ctx, cycleID, lift, week, day)
		if err != nil {
			return nil, err
		}
		if latest {
			engine.ClearLinearLog(st)
		}
	}

	var out engine.LinearOutcome
	if success {
		out = engine.LogLinearSuccess(st)
	} else {
		out = engine.LogLinearFailure(st)
	}
	if err := s.store.UpsertLinearState(ctx, st); err != nil {
		return nil, err
	}

	lg := &models.LiftLog{
		CycleID:  cycleID,
		Week:     week,
		Day:      day,
		Lift:     lift,
		Failed:   !success,
		Note:     note,
		LoggedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertLiftLog(ctx, lg); err != nil {
		return nil, err
	}

	s.log.Info("linear outcome logged",
		"cycle", cycleID, "lift", lift, "week", week, "day", day,
		"success", success, "weight", out.NewWeight, "deload", out.DeloadApplied)
	return &out, nil
}

// ClearLinearLog removes the logged outcome for a key. Only the lift's
// most recent transition is undoable: clearing that key rolls the state
// back to its pre-log values (a missing rollback snapshot degrades to a
// clean unlogged streak), while clearing an older key deletes the row and
// leaves the state, which already reflects later sessions, untouched.
// Clearing a key that was never logged is an error.
func (s *Service) ClearLinearLog(ctx context.Context, cycleID uuid.UUID, lift string, week, day int) error {
	if _, err := s.store.GetLiftLog(ctx, cycleID, week, day, lift); err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("no linear log for %q at week %d day %d: %w", lift, week, day, storage.ErrNotFound)
		}
		return err
	}
	latest, err := s.keyHoldsLatestLog(ctx, cycleID, lift, week, day)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLiftLog(ctx, cycleID, week, day, lift); err != nil {
		return err
	}
	if !latest {
		s.log.Warn("cleared a non-latest linear log, state unchanged",
			"cycle", cycleID, "lift", lift, "week", week, "day", day)
		return nil
	}

	st, err := s.store.GetLinearState(ctx, cycleID, lift)
	if err != nil {
		if errIsNotFound(err) {
			return fmt.Errorf("no linear progression state for %q", lift)
		}
		return err
	}
	exact := engine.ClearLinearLog(st)
	if !exact {
		s.log.Warn("linear rollback snapshot missing, reset to clean state",
			"cycle", cycleID, "lift", lift, "week", week, "day", day)
	}
	return s.store.UpsertLinearState(ctx, st)
}

// keyHoldsLatestLog reports whether (week, day) is the lift's most recently
// logged session in the cycle.
func (s *Service) keyHoldsLatestLog(ctx context.Context, cycleID uuid.UUID, lift string, week, day int) (bool, error) {
	latest, err := s.store.LatestLiftLog(ctx, cycleID, lift)
	if err != nil {
		if errIsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return latest.Week == week && latest.Day == day, nil
}
