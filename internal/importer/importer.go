// Package importer loads workout templates (YAML) and historical set
// exports (CSV) from a directory tree into the database.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	TemplatesImported int
	SetsInserted      int64
	SetsDuplicated    int64

	// InvalidTemplates lists files whose template failed validation,
	// with the first problem.
	InvalidTemplates []string
}

// Importer reads template and set-history files from a directory and
// inserts them into the DB.
type Importer struct {
	db     *storage.DB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(db *storage.DB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun}
}

// Import walks dir and processes every .yaml/.yml file as a template and
// every .csv file as a set history export. Files that fail to parse are
// counted and skipped rather than aborting the run.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return imp.importTemplate(ctx, path)
		case ".csv":
			return imp.importSetCSV(ctx, path)
		default:
			imp.stats.FilesSkipped++
			return nil
		}
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	return &imp.stats, nil
}

func (imp *Importer) importTemplate(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var tpl models.Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		imp.log.Warn("template parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	if problems := tpl.Validate(); len(problems) > 0 {
		imp.log.Warn("template invalid", "file", path, "problems", len(problems), "first", problems[0])
		imp.stats.InvalidTemplates = append(imp.stats.InvalidTemplates,
			fmt.Sprintf("%s: %s", filepath.Base(path), problems[0]))
		imp.stats.FilesErrored++
		return nil
	}

	imp.stats.FilesProcessed++
	if imp.dryRun {
		imp.stats.TemplatesImported++
		return nil
	}

	if err := imp.db.InsertTemplate(ctx, &tpl); err != nil {
		return fmt.Errorf("inserting template from %s: %w", filepath.Base(path), err)
	}
	imp.stats.TemplatesImported++
	imp.log.Info("template imported", "file", filepath.Base(path), "name", tpl.Name)
	return nil
}

func (imp *Importer) importSetCSV(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ParseSetCSV(f)
	if err != nil {
		imp.log.Warn("CSV parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	if len(rows) == 0 {
		imp.stats.FilesSkipped++
		return nil
	}

	imp.stats.FilesProcessed++
	if imp.dryRun {
		imp.stats.SetsInserted += int64(len(rows))
		return nil
	}

	inserted, err := imp.batchInsertSets(ctx, rows)
	if err != nil {
		return fmt.Errorf("inserting sets from %s: %w", filepath.Base(path), err)
	}
	imp.stats.SetsInserted += inserted
	imp.stats.SetsDuplicated += int64(len(rows)) - inserted
	imp.log.Info("sets imported", "file", filepath.Base(path), "inserted", inserted)
	return nil
}

// batchInsertSets inserts archive rows in batches to stay within
// PostgreSQL parameter limits. 8 params per row, max 65535 params →
// ~8191 rows per batch. Use 8000.
func (imp *Importer) batchInsertSets(ctx context.Context, rows []models.SetArchiveRow) (int64, error) {
	const batchSize = 8000
	var totalInserted int64

	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		inserted, err := imp.db.InsertSetArchive(ctx, rows[i:end])
		if err != nil {
			return totalInserted, err
		}
		totalInserted += inserted
	}
	return totalInserted, nil
}
