package program

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/models"
)

// findAutoregItem locates the volume/structured item for a lift on a day.
func findAutoregItem(tpl *models.Template, day int, lift string) (*models.DayItem, error) {
	if day < 1 || day > tpl.DaysPerWeek {
		return nil, fmt.Errorf("day %d is outside the schedule (days per week is %d)", day, tpl.DaysPerWeek)
	}
	items := tpl.Days[day]
	for i := range items {
		it := &items[i]
		if it.Lift == lift && (it.Type == models.ItemVolume || it.Type == models.ItemStructured) {
			return it, nil
		}
	}
	return nil, fmt.Errorf("no autoregulated item for %q on day %d", lift, day)
}

// LogStructuredSet records AMRAP reps for one set of a structured or
// volume item. Only the item's designated progression set moves the
// training max; other sets are logged for history alone. Re-logging the
// progression set replaces its earlier adjustment rather than stacking a
// second one.
func (s *Service) LogStructuredSet(ctx context.Context, cycleID uuid.UUID, lift string, week, day, setIndex, reps int) (*float64, error) {
	if reps < 0 {
		return nil, fmt.Errorf("reps must not be negative, got %d", reps)
	}
	_, tpl, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > tpl.Weeks {
		return nil, fmt.Errorf("week %d is outside the cycle (weeks: %d)", week, tpl.Weeks)
	}
	item, err := findAutoregItem(tpl, day, lift)
	if err != nil {
		return nil, err
	}
	if setIndex < 0 || setIndex >= len(item.Sets) {
		return nil, fmt.Errorf("set index %d is out of range for %q (sets: %d)", setIndex, lift, len(item.Sets))
	}

	lg, err := s.store.GetLiftLog(ctx, cycleID, week, day, lift)
	if err != nil {
		if !errIsNotFound(err) {
			return nil, err
		}
		lg = &models.LiftLog{CycleID: cycleID, Week: week, Day: day, Lift: lift}
	}
	if lg.SetReps == nil {
		lg.SetReps = map[int]int{}
	}

	var updatedTM *float64
	if setIndex == item.ProgressionSetIndex() {
		tm, err := s.store.GetTrainingMax(ctx, cycleID, lift)
		if err != nil {
			if errIsNotFound(err) {
				return nil, fmt.Errorf("no training max for %q", lift)
			}
			return nil, err
		}

		// Base the adjustment on the pre-log value when this set was
		// already logged once, so replacing a log yields the same state
		// as logging the new reps directly.
		base := tm.Value
		if _, logged := lg.SetReps[setIndex]; logged && tm.PrevValue != nil {
			base = *tm.PrevValue
		}

		next := s.adjust.Apply(base, item.Sets[setIndex].Reps, reps)
		tm.PrevValue = &base
		tm.Value = next
		if err := s.store.UpsertTrainingMax(ctx, tm); err != nil {
			return nil, err
		}
		updatedTM = &next

		s.log.Info("training max adjusted",
			"cycle", cycleID, "lift", lift, "week", week, "day", day,
			"target", item.Sets[setIndex].Reps, "actual", reps,
			"from", base, "to", next)
	}

	lg.SetReps[setIndex] = reps
	lg.LoggedAt = time.Now().UTC()
	if err := s.store.UpsertLiftLog(ctx, lg); err != nil {
		return nil, err
	}
	return updatedTM, nil
}

// ClearStructuredSet removes one set's log entry. Clearing the
// progression set reverts the training max to its pre-log value; when the
// last entry goes, the whole log row is deleted. Clearing an absent entry
// is a no-op.
func (s *Service) ClearStructuredSet(ctx context.Context, cycleID uuid.UUID, lift string, week, day, setIndex int) error {
	lg, err := s.store.GetLiftLog(ctx, cycleID, week, day, lift)
	if err != nil {
		if errIsNotFound(err) {
			return nil
		}
		return err
	}
	if _, logged := lg.SetReps[setIndex]; !logged {
		return nil
	}

	_, tpl, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	item, err := findAutoregItem(tpl, day, lift)
	if err != nil {
		return err
	}

	if setIndex == item.ProgressionSetIndex() {
		tm, err := s.store.GetTrainingMax(ctx, cycleID, lift)
		if err != nil && !errIsNotFound(err) {
			return err
		}
		if err == nil {
			if tm.PrevValue != nil {
				tm.Value = *tm.PrevValue
				tm.PrevValue = nil
				if err := s.store.UpsertTrainingMax(ctx, tm); err != nil {
					return err
				}
			} else {
				// Rollback value lost externally; keep the current max
				// rather than guessing (documented degradation).
				s.log.Warn("training max rollback value missing, keeping current",
					"cycle", cycleID, "lift", lift)
			}
		}
	}

	delete(lg.SetReps, setIndex)
	if len(lg.SetReps) == 0 {
		return s.store.DeleteLiftLog(ctx, cycleID, week, day, lift)
	}
	return s.store.UpsertLiftLog(ctx, lg)
}
