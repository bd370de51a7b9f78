package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironcycle/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// TemplateSummary is the list view of a stored template.
type TemplateSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DaysPerWeek int       `json:"days_per_week"`
	Weeks       int       `json:"weeks"`
	CreatedAt   time.Time `json:"created_at"`
}

// InsertTemplate stores a template; the day structure is persisted as
// JSONB. Assigns an ID when the template has none.
func (db *DB) InsertTemplate(ctx context.Context, tpl *models.Template) error {
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	definition, err := json.Marshal(tpl.Days)
	if err != nil {
		return fmt.Errorf("encoding template days: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO templates (id, name, days_per_week, weeks, display_mode, definition)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   days_per_week = EXCLUDED.days_per_week,
		   weeks = EXCLUDED.weeks,
		   display_mode = EXCLUDED.display_mode,
		   definition = EXCLUDED.definition`,
		tpl.ID, tpl.Name, tpl.DaysPerWeek, tpl.Weeks, tpl.DisplayMode, definition)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// GetTemplate loads a template by ID.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var tpl models.Template
	var definition []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, days_per_week, weeks, display_mode, definition
		 FROM templates WHERE id = $1`, id).
		Scan(&tpl.ID, &tpl.Name, &tpl.DaysPerWeek, &tpl.Weeks, &tpl.DisplayMode, &definition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying template: %w", err)
	}
	if err := json.Unmarshal(definition, &tpl.Days); err != nil {
		return nil, fmt.Errorf("decoding template days: %w", err)
	}
	return &tpl, nil
}

// ListTemplates returns summaries of all stored templates, newest first.
func (db *DB) ListTemplates(ctx context.Context) ([]TemplateSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, days_per_week, weeks, created_at
		 FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []TemplateSummary
	for rows.Next() {
		var s TemplateSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.DaysPerWeek, &s.Weeks, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
