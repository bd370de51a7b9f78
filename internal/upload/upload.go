// Package upload walks a directory of CSV set exports and pushes new or
// changed files to a remote IronCycle server, tracking what was already
// sent in a local SQLite state database.
package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/ironcycle/internal/importer"
	"github.com/meltforce/ironcycle/internal/models"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SetsSent     int
	SetsInserted int64
}

// Uploader walks an export directory, converts CSV files to the import
// payload, and POSTs them to the IronCycle server.
type Uploader struct {
	client    *Client
	state     *StateDB
	exportDir string
	dryRun    bool
	batchSize int
	log       *slog.Logger
	stats     Stats
}

// New creates a new Uploader. batchSize caps the rows per request; <= 0
// selects a sane default.
func New(client *Client, state *StateDB, exportDir string, dryRun bool, batchSize int, log *slog.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = 2000
	}
	return &Uploader{
		client:    client,
		state:     state,
		exportDir: exportDir,
		dryRun:    dryRun,
		batchSize: batchSize,
		log:       log,
	}
}

// Run executes the upload pipeline over every .csv file under the export
// directory. Files that fail to parse are counted and skipped; transport
// errors abort the run so the state database stays truthful.
func (u *Uploader) Run() (*Stats, error) {
	var files []string
	err := filepath.WalkDir(u.exportDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.exportDir, err)
	}

	for _, f := range files {
		if err := u.processFile(f); err != nil {
			return &u.stats, err
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(path string) error {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.exportDir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		u.log.Warn("open failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	rows, err := importer.ParseSetCSV(f)
	_ = f.Close()
	if err != nil {
		u.log.Warn("CSV parse failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if len(rows) == 0 {
		u.stats.FilesSkipped++
		return nil
	}

	if u.dryRun {
		u.log.Info("would upload", "file", relPath, "sets", len(rows))
		u.stats.FilesUploaded++
		u.stats.SetsSent += len(rows)
		return nil
	}

	if err := u.sendBatches(rows); err != nil {
		return fmt.Errorf("uploading %s: %w", relPath, err)
	}

	if err := u.state.MarkUploaded(relPath, info.Size(), hash, len(rows)); err != nil {
		u.log.Warn("state update failed", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++
	u.log.Info("uploaded", "file", relPath, "sets", len(rows))
	return nil
}

func (u *Uploader) sendBatches(rows []models.SetArchiveRow) error {
	for i := 0; i < len(rows); i += u.batchSize {
		end := i + u.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		result, err := u.client.SendSets(rows[i:end])
		if err != nil {
			return err
		}
		u.stats.SetsSent += result.Received
		u.stats.SetsInserted += result.Inserted
	}
	return nil
}

// ResolveDir expands a leading ~ and verifies the directory exists.
func ResolveDir(dir string) (string, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("export directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}
