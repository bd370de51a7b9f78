package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironcycle/internal/models"
)

const linearStateColumns = `cycle_id, lift, weight, failures, deload_pending,
	increment, deload_percent, failure_threshold,
	prev_weight, prev_failures, prev_deload_pending`

// UpsertLinearState writes a lift's linear progression state, snapshot
// fields included.
func (db *DB) UpsertLinearState(ctx context.Context, st *models.LinearState) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO linear_states (`+linearStateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (cycle_id, lift) DO UPDATE SET
		   weight = EXCLUDED.weight,
		   failures = EXCLUDED.failures,
		   deload_pending = EXCLUDED.deload_pending,
		   increment = EXCLUDED.increment,
		   deload_percent = EXCLUDED.deload_percent,
		   failure_threshold = EXCLUDED.failure_threshold,
		   prev_weight = EXCLUDED.prev_weight,
		   prev_failures = EXCLUDED.prev_failures,
		   prev_deload_pending = EXCLUDED.prev_deload_pending`,
		st.CycleID, st.Lift, st.Weight, st.Failures, st.DeloadPending,
		st.Increment, st.DeloadPercent, st.FailureThreshold,
		st.PrevWeight, st.PrevFailures, st.PrevDeloadPending)
	if err != nil {
		return fmt.Errorf("upserting linear state: %w", err)
	}
	return nil
}

// GetLinearState loads one lift's linear state.
func (db *DB) GetLinearState(ctx context.Context, cycleID uuid.UUID, lift string) (*models.LinearState, error) {
	var st models.LinearState
	err := db.Pool.QueryRow(ctx,
		`SELECT `+linearStateColumns+` FROM linear_states
		 WHERE cycle_id = $1 AND lift = $2`, cycleID, lift).
		Scan(&st.CycleID, &st.Lift, &st.Weight, &st.Failures, &st.DeloadPending,
			&st.Increment, &st.DeloadPercent, &st.FailureThreshold,
			&st.PrevWeight, &st.PrevFailures, &st.PrevDeloadPending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying linear state: %w", err)
	}
	return &st, nil
}

// GetLinearWeights returns the current working weight per linear lift.
func (db *DB) GetLinearWeights(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT lift, weight FROM linear_states WHERE cycle_id = $1`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying linear states: %w", err)
	}
	defer rows.Close()

	weights := map[string]float64{}
	for rows.Next() {
		var lift string
		var weight float64
		if err := rows.Scan(&lift, &weight); err != nil {
			return nil, fmt.Errorf("scanning linear state: %w", err)
		}
		weights[lift] = weight
	}
	return weights, rows.Err()
}
