package upload

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleCSV = `session_date,lift,set_number,weight,reps
2026-03-02,squat,1,225,5
2026-03-02,squat,2,255,5
`

// TestStateDBRoundTrip verifies the dedupe record survives close/reopen
// and that a changed hash re-qualifies the file.
func TestStateDBRoundTrip(t *testing.T) {
	dir := t.TempDir()

	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.MarkUploaded("a.csv", 100, "hash1", 12); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}

	state, err = OpenStateDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	uploaded, err := state.IsUploaded("a.csv", 100, "hash1")
	if err != nil {
		t.Fatal(err)
	}
	if !uploaded {
		t.Error("record did not survive reopen")
	}

	changed, err := state.IsUploaded("a.csv", 100, "hash2")
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("changed hash should not count as uploaded")
	}
}

// TestUploaderSendsNewFiles verifies a fresh CSV is parsed, POSTed with
// the API key, and recorded in the state database.
func TestUploaderSendsNewFiles(t *testing.T) {
	exportDir := t.TempDir()
	writeFile(t, filepath.Join(exportDir, "march.csv"), sampleCSV)

	var gotSets int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/import/sets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want secret", got)
		}
		var req struct {
			Sets []json.RawMessage `json:"sets"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		gotSets = len(req.Sets)
		json.NewEncoder(w).Encode(map[string]any{"received": gotSets, "inserted": gotSets})
	}))
	defer ts.Close()

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient(ts.URL, "secret"), state, exportDir, false, 0, testLogger())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	if gotSets != 2 {
		t.Errorf("server received %d sets, want 2", gotSets)
	}
	if stats.FilesUploaded != 1 || stats.SetsInserted != 2 {
		t.Errorf("stats = %+v", stats)
	}

	// Second run: nothing new to send.
	u2 := New(NewClient(ts.URL, "secret"), state, exportDir, false, 0, testLogger())
	stats2, err := u2.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 1 || stats2.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v", stats2)
	}
}

// TestUploaderDryRun verifies dry-run counts without contacting the
// server or touching the state database.
func TestUploaderDryRun(t *testing.T) {
	exportDir := t.TempDir()
	writeFile(t, filepath.Join(exportDir, "march.csv"), sampleCSV)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient("http://127.0.0.1:0", "secret"), state, exportDir, true, 0, testLogger())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesUploaded != 1 || stats.SetsSent != 2 {
		t.Errorf("stats = %+v", stats)
	}

	uploaded, err := state.IsUploaded("march.csv", int64(len(sampleCSV)), "")
	if err != nil {
		t.Fatal(err)
	}
	if uploaded {
		t.Error("dry run must not mark files uploaded")
	}
}

// TestUploaderSkipsBrokenCSV verifies parse failures are counted, not
// fatal.
func TestUploaderSkipsBrokenCSV(t *testing.T) {
	exportDir := t.TempDir()
	writeFile(t, filepath.Join(exportDir, "broken.csv"), "lift,weight\nsquat,225\n")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient("http://127.0.0.1:0", "secret"), state, exportDir, true, 0, testLogger())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("errored = %d, want 1", stats.FilesErrored)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
