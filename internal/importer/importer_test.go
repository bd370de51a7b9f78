package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParseSetCSV verifies header-driven parsing, optional columns, and
// stable row IDs.
func TestParseSetCSV(t *testing.T) {
	csv := `session_date,lift,set_number,weight,reps,amrap,unit
2026-03-02,squat,1,225,5,,lb
2026-03-02,squat,2,255,5,true,lb
2026-03-02T18:30:00Z,bench,1,100,8,yes,kg
`
	rows, err := ParseSetCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].Lift != "squat" || rows[0].Weight != 225 || rows[0].Reps != 5 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].AMRAP {
		t.Error("row 0 should not be AMRAP")
	}
	if !rows[1].AMRAP {
		t.Error("row 1 should be AMRAP")
	}
	if rows[2].Unit != "kg" {
		t.Errorf("row 2 unit = %q, want kg", rows[2].Unit)
	}
	if rows[2].SessionDate.Hour() != 18 {
		t.Errorf("row 2 time = %v, want 18:30", rows[2].SessionDate)
	}

	// Same natural key always derives the same ID.
	again, err := ParseSetCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].ID != again[0].ID {
		t.Error("row IDs are not stable across parses")
	}
	if rows[0].ID == rows[1].ID {
		t.Error("distinct sets share an ID")
	}
}

// TestParseSetCSV_ColumnOrder verifies any header order is accepted.
func TestParseSetCSV_ColumnOrder(t *testing.T) {
	csv := `reps,weight,lift,set_number,session_date
5,315,deadlift,1,2026-01-15
`
	rows, err := ParseSetCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Lift != "deadlift" || rows[0].Weight != 315 {
		t.Errorf("row = %+v", rows[0])
	}
	if rows[0].Unit != "lb" {
		t.Errorf("unit = %q, want default lb", rows[0].Unit)
	}
}

// TestParseSetCSV_Rejections verifies missing columns and malformed rows
// fail with line context.
func TestParseSetCSV_Rejections(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "lift,set_number,weight,reps\nsquat,1,225,5\n"},
		{"bad date", "session_date,lift,set_number,weight,reps\nyesterday,squat,1,225,5\n"},
		{"bad weight", "session_date,lift,set_number,weight,reps\n2026-01-01,squat,1,heavy,5\n"},
		{"empty lift", "session_date,lift,set_number,weight,reps\n2026-01-01,,1,225,5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSetCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestImportDryRun verifies the walk counts templates and sets without a
// database connection.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()

	tpl := `name: 2-Day Linear
days_per_week: 1
weeks: 6
days:
  1:
    - type: linear
      lift: squat
      sets:
        - {intensity: 1, reps: 5}
        - {intensity: 1, reps: 5}
`
	writeFile(t, filepath.Join(dir, "linear.yaml"), tpl)
	writeFile(t, filepath.Join(dir, "history.csv"),
		"session_date,lift,set_number,weight,reps\n2026-01-01,squat,1,225,5\n2026-01-01,squat,2,225,5\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignore me")

	imp := New(nil, testLogger(), true)
	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TemplatesImported != 1 {
		t.Errorf("templates = %d, want 1", stats.TemplatesImported)
	}
	if stats.SetsInserted != 2 {
		t.Errorf("sets = %d, want 2", stats.SetsInserted)
	}
	if stats.FilesSkipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.FilesSkipped)
	}
	if stats.FilesErrored != 0 {
		t.Errorf("errored = %d, want 0", stats.FilesErrored)
	}
}

// TestImportInvalidTemplate verifies a template failing validation is
// recorded and skipped without aborting the run.
func TestImportInvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: \"\"\ndays_per_week: 0\nweeks: 0\n")

	imp := New(nil, testLogger(), true)
	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesErrored != 1 {
		t.Errorf("errored = %d, want 1", stats.FilesErrored)
	}
	if len(stats.InvalidTemplates) != 1 {
		t.Errorf("invalid templates = %v, want one entry", stats.InvalidTemplates)
	}
	if stats.TemplatesImported != 0 {
		t.Errorf("templates = %d, want 0", stats.TemplatesImported)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
