package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/ironcycle/internal/models"
)

// InsertSetArchive batch-inserts historical sets from a CSV import.
// Returns the count inserted; duplicate rows (same id) are skipped.
func (db *DB) InsertSetArchive(ctx context.Context, rows []models.SetArchiveRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO set_archive (id, session_date, lift, set_number, weight, reps, amrap, unit) VALUES `
	args := make([]any, 0, len(rows)*8)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.ID, r.SessionDate, r.Lift, r.SetNumber, r.Weight, r.Reps, r.AMRAP, r.Unit)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting set archive: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySetArchive retrieves archived sets in a date range, optionally
// filtered by lift name (partial match).
func (db *DB) QuerySetArchive(ctx context.Context, start, end time.Time, lift string) ([]models.SetArchiveRow, error) {
	query := `SELECT id, session_date, lift, set_number, weight, reps, amrap, unit
		 FROM set_archive
		 WHERE session_date >= $1 AND session_date < $2`
	args := []any{start, end}
	if lift != "" {
		query += ` AND lift ILIKE $3`
		args = append(args, "%"+lift+"%")
	}
	query += ` ORDER BY session_date DESC, set_number ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying set archive: %w", err)
	}
	defer rows.Close()

	var result []models.SetArchiveRow
	for rows.Next() {
		var r models.SetArchiveRow
		if err := rows.Scan(&r.ID, &r.SessionDate, &r.Lift, &r.SetNumber, &r.Weight, &r.Reps, &r.AMRAP, &r.Unit); err != nil {
			return nil, fmt.Errorf("scanning archived set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
