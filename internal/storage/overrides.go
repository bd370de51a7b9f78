package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/models"
)

// UpsertOverride writes a manual weight override for one (week, day,
// lift) occurrence.
func (db *DB) UpsertOverride(ctx context.Context, ov *models.WeightOverride) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO weight_overrides (cycle_id, week, day, lift, weight)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (cycle_id, week, day, lift) DO UPDATE SET weight = EXCLUDED.weight`,
		ov.CycleID, ov.Week, ov.Day, ov.Lift, ov.Weight)
	if err != nil {
		return fmt.Errorf("upserting override: %w", err)
	}
	return nil
}

// DeleteOverride removes an override, reverting that occurrence to its
// computed weight. Idempotent.
func (db *DB) DeleteOverride(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM weight_overrides WHERE cycle_id = $1 AND week = $2 AND day = $3 AND lift = $4`,
		cycleID, week, day, lift)
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	return nil
}

// GetOverrides returns the override weights for one (week, day) as a lift
// map, the shape the planner consumes.
func (db *DB) GetOverrides(ctx context.Context, cycleID uuid.UUID, week, day int) (map[string]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT lift, weight FROM weight_overrides
		 WHERE cycle_id = $1 AND week = $2 AND day = $3`, cycleID, week, day)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	overrides := map[string]float64{}
	for rows.Next() {
		var lift string
		var weight float64
		if err := rows.Scan(&lift, &weight); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		overrides[lift] = weight
	}
	return overrides, rows.Err()
}
