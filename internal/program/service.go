// Package program orchestrates the calculation engine against persisted
// cycle state: every operation reads the current state, runs the pure
// engine transition, and writes the result back. The engine itself never
// touches storage.
package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/storage"
)

// Store is the slice of the storage layer the program service uses.
// Satisfied by *storage.DB; tests substitute an in-memory fake.
type Store interface {
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error)
	InsertCycle(ctx context.Context, c *models.Cycle) error
	GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error)

	GetTrainingMax(ctx context.Context, cycleID uuid.UUID, lift string) (*models.TrainingMax, error)
	GetTrainingMaxes(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error)
	UpsertTrainingMax(ctx context.Context, tm *models.TrainingMax) error

	GetLinearState(ctx context.Context, cycleID uuid.UUID, lift string) (*models.LinearState, error)
	GetLinearWeights(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error)
	UpsertLinearState(ctx context.Context, st *models.LinearState) error

	GetLiftLog(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) (*models.LiftLog, error)
	LatestLiftLog(ctx context.Context, cycleID uuid.UUID, lift string) (*models.LiftLog, error)
	UpsertLiftLog(ctx context.Context, lg *models.LiftLog) error
	DeleteLiftLog(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) error

	GetOverrides(ctx context.Context, cycleID uuid.UUID, week, day int) (map[string]float64, error)
	UpsertOverride(ctx context.Context, ov *models.WeightOverride) error
	DeleteOverride(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) error
}

var _ Store = (*storage.DB)(nil)

// Service exposes the progression operations to the HTTP and MCP layers.
type Service struct {
	store  Store
	adjust engine.AdjustmentTable
	log    *slog.Logger
}

// New creates a Service with the shipped adjustment table.
func New(store Store, log *slog.Logger) *Service {
	return &Service{store: store, adjust: engine.DefaultAdjustments, log: log}
}

// SetAdjustments replaces the reps-to-adjustment mapping after validating
// monotonicity.
func (s *Service) SetAdjustments(table engine.AdjustmentTable) error {
	if err := table.Validate(); err != nil {
		return err
	}
	s.adjust = table
	return nil
}

// StartCycleParams seeds a new cycle.
type StartCycleParams struct {
	TemplateID    uuid.UUID          `json:"template_id"`
	Unit          models.UnitSystem  `json:"unit"`
	Increment     float64            `json:"increment,omitempty"`
	TrainingMaxes map[string]float64 `json:"training_maxes"`
	LinearStarts  map[string]float64 `json:"linear_starts,omitempty"`

	// CarryFrom copies training maxes from a previous cycle for any
	// tracked lift not named in TrainingMaxes.
	CarryFrom *uuid.UUID `json:"carry_from,omitempty"`
}

// StartCycle validates the template, resolves starting maxes (explicit
// values win over carried-over ones), and seeds per-lift state.
func (s *Service) StartCycle(ctx context.Context, p StartCycleParams) (*models.Cycle, error) {
	tpl, err := s.store.GetTemplate(ctx, p.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if problems := tpl.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("template %q is invalid: %s", tpl.Name, problems[0])
	}
	if !p.Unit.Valid() {
		return nil, fmt.Errorf("unknown unit system %q", p.Unit)
	}
	increment := p.Increment
	if increment <= 0 {
		increment = p.Unit.DefaultIncrement()
	}

	maxes := map[string]float64{}
	if p.CarryFrom != nil {
		carried, err := s.store.GetTrainingMaxes(ctx, *p.CarryFrom)
		if err != nil {
			return nil, fmt.Errorf("loading carried maxes: %w", err)
		}
		for lift, v := range carried {
			maxes[lift] = v
		}
	}
	for lift, v := range p.TrainingMaxes {
		if v < 0 {
			return nil, fmt.Errorf("training max for %q must not be negative, got %g", lift, v)
		}
		maxes[lift] = v
	}

	cycle := &models.Cycle{
		ID:         uuid.New(),
		TemplateID: tpl.ID,
		Unit:       p.Unit,
		Increment:  increment,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.store.InsertCycle(ctx, cycle); err != nil {
		return nil, err
	}

	for _, lift := range tpl.TrackedLifts() {
		tm := &models.TrainingMax{CycleID: cycle.ID, Lift: lift, Value: maxes[lift]}
		if err := s.store.UpsertTrainingMax(ctx, tm); err != nil {
			return nil, err
		}
	}
	for _, lift := range tpl.LinearLifts() {
		start := p.LinearStarts[lift]
		if start == 0 {
			start = maxes[lift]
		}
		st := engine.NewLinearState(lift, start, increment)
		st.CycleID = cycle.ID
		if err := s.store.UpsertLinearState(ctx, &st); err != nil {
			return nil, err
		}
	}

	s.log.Info("cycle started", "cycle", cycle.ID, "template", tpl.Name, "unit", cycle.Unit)
	return cycle, nil
}

// ResolveDay produces the concrete day plan for (week, day) of a cycle.
func (s *Service) ResolveDay(ctx context.Context, cycleID uuid.UUID, week, day int) ([]engine.ResolvedItem, error) {
	cycle, tpl, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > tpl.Weeks {
		return nil, fmt.Errorf("week %d is outside the cycle (weeks: %d)", week, tpl.Weeks)
	}

	maxes, err := s.store.GetTrainingMaxes(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	linear, err := s.store.GetLinearWeights(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.GetOverrides(ctx, cycleID, week, day)
	if err != nil {
		return nil, err
	}

	return engine.ResolveDay(tpl, day, engine.PlanInput{
		TrainingMaxes: maxes,
		LinearWeights: linear,
		Overrides:     overrides,
		Increment:     cycle.Increment,
	})
}

func (s *Service) loadCycle(ctx context.Context, cycleID uuid.UUID) (*models.Cycle, *models.Template, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading cycle: %w", err)
	}
	tpl, err := s.store.GetTemplate(ctx, cycle.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading template: %w", err)
	}
	return cycle, tpl, nil
}

// SetOverride records a manual weight for one occurrence without touching
// the training max.
func (s *Service) SetOverride(ctx context.Context, ov *models.WeightOverride) error {
	if ov.Weight < 0 {
		return fmt.Errorf("override weight must not be negative, got %g", ov.Weight)
	}
	return s.store.UpsertOverride(ctx, ov)
}

// ClearOverride reverts an occurrence to its computed weight.
func (s *Service) ClearOverride(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) error {
	return s.store.DeleteOverride(ctx, cycleID, week, day, lift)
}

// errIsNotFound reports whether err is the storage missing-row sentinel.
func errIsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
