package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironcycle/internal/models"
)

// UpsertTrainingMax writes a lift's training max, including the rollback
// value from before the most recent autoregulated update.
func (db *DB) UpsertTrainingMax(ctx context.Context, tm *models.TrainingMax) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO training_maxes (cycle_id, lift, value, prev_value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cycle_id, lift) DO UPDATE SET
		   value = EXCLUDED.value,
		   prev_value = EXCLUDED.prev_value`,
		tm.CycleID, tm.Lift, tm.Value, tm.PrevValue)
	if err != nil {
		return fmt.Errorf("upserting training max: %w", err)
	}
	return nil
}

// GetTrainingMax loads one lift's training max row.
func (db *DB) GetTrainingMax(ctx context.Context, cycleID uuid.UUID, lift string) (*models.TrainingMax, error) {
	var tm models.TrainingMax
	err := db.Pool.QueryRow(ctx,
		`SELECT cycle_id, lift, value, prev_value
		 FROM training_maxes WHERE cycle_id = $1 AND lift = $2`, cycleID, lift).
		Scan(&tm.CycleID, &tm.Lift, &tm.Value, &tm.PrevValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying training max: %w", err)
	}
	return &tm, nil
}

// GetTrainingMaxes returns all training maxes for a cycle as a lift map.
func (db *DB) GetTrainingMaxes(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT lift, value FROM training_maxes WHERE cycle_id = $1`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying training maxes: %w", err)
	}
	defer rows.Close()

	maxes := map[string]float64{}
	for rows.Next() {
		var lift string
		var value float64
		if err := rows.Scan(&lift, &value); err != nil {
			return nil, fmt.Errorf("scanning training max: %w", err)
		}
		maxes[lift] = value
	}
	return maxes, rows.Err()
}
