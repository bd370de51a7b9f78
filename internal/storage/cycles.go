package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironcycle/internal/models"
)

// InsertCycle stores a new cycle. The caller seeds training maxes and
// linear states separately.
func (db *DB) InsertCycle(ctx context.Context, c *models.Cycle) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO cycles (id, template_id, unit, increment, started_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TemplateID, string(c.Unit), c.Increment, c.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting cycle: %w", err)
	}
	return nil
}

// GetCycle loads a cycle by ID.
func (db *DB) GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	var c models.Cycle
	var unit string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, template_id, unit, increment, started_at FROM cycles WHERE id = $1`, id).
		Scan(&c.ID, &c.TemplateID, &unit, &c.Increment, &c.StartedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cycle: %w", err)
	}
	c.Unit = models.UnitSystem(unit)
	return &c, nil
}

// CurrentCycle returns the most recently started cycle.
func (db *DB) CurrentCycle(ctx context.Context) (*models.Cycle, error) {
	var c models.Cycle
	var unit string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, template_id, unit, increment, started_at
		 FROM cycles ORDER BY started_at DESC LIMIT 1`).
		Scan(&c.ID, &c.TemplateID, &unit, &c.Increment, &c.StartedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying current cycle: %w", err)
	}
	c.Unit = models.UnitSystem(unit)
	return &c, nil
}

// ResetCycleState clears logs and overrides for a cycle, used when the
// user resets mid-cycle without starting a new one.
func (db *DB) ResetCycleState(ctx context.Context, cycleID uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM lift_logs WHERE cycle_id = $1`, cycleID); err != nil {
		return fmt.Errorf("clearing lift logs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM weight_overrides WHERE cycle_id = $1`, cycleID); err != nil {
		return fmt.Errorf("clearing overrides: %w", err)
	}
	return nil
}
