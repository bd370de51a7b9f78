package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironcycle/internal/models"
)

// UpsertLiftLog writes a log entry for its (cycle, week, day, lift) key,
// replacing any prior entry for the same key.
func (db *DB) UpsertLiftLog(ctx context.Context, lg *models.LiftLog) error {
	setReps, err := json.Marshal(lg.SetReps)
	if err != nil {
		return fmt.Errorf("encoding set reps: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO lift_logs (cycle_id, week, day, lift, reps, set_reps, failed, note, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (cycle_id, week, day, lift) DO UPDATE SET
		   reps = EXCLUDED.reps,
		   set_reps = EXCLUDED.set_reps,
		   failed = EXCLUDED.failed,
		   note = EXCLUDED.note,
		   logged_at = EXCLUDED.logged_at`,
		lg.CycleID, lg.Week, lg.Day, lg.Lift, lg.Reps, setReps, lg.Failed, lg.Note, lg.LoggedAt)
	if err != nil {
		return fmt.Errorf("upserting lift log: %w", err)
	}
	return nil
}

// GetLiftLog loads the log entry for a (cycle, week, day, lift) key.
func (db *DB) GetLiftLog(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) (*models.LiftLog, error) {
	var lg models.LiftLog
	var setReps []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT cycle_id, week, day, lift, reps, set_reps, failed, note, logged_at
		 FROM lift_logs WHERE cycle_id = $1 AND week = $2 AND day = $3 AND lift = $4`,
		cycleID, week, day, lift).
		Scan(&lg.CycleID, &lg.Week, &lg.Day, &lg.Lift, &lg.Reps, &setReps, &lg.Failed, &lg.Note, &lg.LoggedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying lift log: %w", err)
	}
	if len(setReps) > 0 {
		if err := json.Unmarshal(setReps, &lg.SetReps); err != nil {
			return nil, fmt.Errorf("decoding set reps: %w", err)
		}
	}
	return &lg, nil
}

// LatestLiftLog loads the most recently logged entry for a lift within a
// cycle, regardless of its (week, day) key.
func (db *DB) LatestLiftLog(ctx context.Context, cycleID uuid.UUID, lift string) (*models.LiftLog, error) {
	var lg models.LiftLog
	var setReps []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT cycle_id, week, day, lift, reps, set_reps, failed, note, logged_at
		 FROM lift_logs WHERE cycle_id = $1 AND lift = $2
		 ORDER BY logged_at DESC LIMIT 1`,
		cycleID, lift).
		Scan(&lg.CycleID, &lg.Week, &lg.Day, &lg.Lift, &lg.Reps, &setReps, &lg.Failed, &lg.Note, &lg.LoggedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying latest lift log: %w", err)
	}
	if len(setReps) > 0 {
		if err := json.Unmarshal(setReps, &lg.SetReps); err != nil {
			return nil, fmt.Errorf("decoding set reps: %w", err)
		}
	}
	return &lg, nil
}

// DeleteLiftLog removes the log entry for a key. Missing rows are not an
// error; clears are idempotent.
func (db *DB) DeleteLiftLog(ctx context.Context, cycleID uuid.UUID, week, day int, lift string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM lift_logs WHERE cycle_id = $1 AND week = $2 AND day = $3 AND lift = $4`,
		cycleID, week, day, lift)
	if err != nil {
		return fmt.Errorf("deleting lift log: %w", err)
	}
	return nil
}

// QueryLiftLogs returns a cycle's logs, optionally filtered by lift,
// ordered by week/day.
func (db *DB) QueryLiftLogs(ctx context.Context, cycleID uuid.UUID, lift string) ([]models.LiftLog, error) {
	query := `SELECT cycle_id, week, day, lift, reps, set_reps, failed, note, logged_at
		 FROM lift_logs WHERE cycle_id = $1`
	args := []any{cycleID}
	if lift != "" {
		query += ` AND lift = $2`
		args = append(args, lift)
	}
	query += ` ORDER BY week, day, lift`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lift logs: %w", err)
	}
	defer rows.Close()

	var result []models.LiftLog
	for rows.Next() {
		var lg models.LiftLog
		var setReps []byte
		if err := rows.Scan(&lg.CycleID, &lg.Week, &lg.Day, &lg.Lift, &lg.Reps, &setReps, &lg.Failed, &lg.Note, &lg.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning lift log: %w", err)
		}
		if len(setReps) > 0 {
			if err := json.Unmarshal(setReps, &lg.SetReps); err != nil {
				return nil, fmt.Errorf("decoding set reps: %w", err)
			}
		}
		result = append(result, lg)
	}
	return result, rows.Err()
}
