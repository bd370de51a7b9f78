package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/models"
)

// setCSVColumns are the required header columns of a set history export,
// in any order.
var setCSVColumns = []string{"session_date", "lift", "set_number", "weight", "reps"}

// ParseSetCSV reads a set history CSV into archive rows. The header row
// names the columns; amrap and unit are optional (default false / "lb").
// Row IDs are derived from (date, lift, set number) so re-importing the
// same file is a no-op at the database layer.
func ParseSetCSV(r io.Reader) ([]models.SetArchiveRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range setCSVColumns {
		if _, present := col[required]; !present {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	var rows []models.SetArchiveRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := parseSessionDate(record[col["session_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		lift := strings.TrimSpace(record[col["lift"]])
		if lift == "" {
			return nil, fmt.Errorf("line %d: lift must not be empty", line)
		}
		setNumber, err := strconv.Atoi(record[col["set_number"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid set number %q", line, record[col["set_number"]])
		}
		weight, err := strconv.ParseFloat(record[col["weight"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid weight %q", line, record[col["weight"]])
		}
		reps, err := strconv.Atoi(record[col["reps"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid reps %q", line, record[col["reps"]])
		}

		row := models.SetArchiveRow{
			SessionDate: date,
			Lift:        lift,
			SetNumber:   setNumber,
			Weight:      weight,
			Reps:        reps,
			Unit:        "lb",
		}
		if i, present := col["amrap"]; present && i < len(record) {
			row.AMRAP = parseBool(record[i])
		}
		if i, present := col["unit"]; present && i < len(record) && strings.TrimSpace(record[i]) != "" {
			row.Unit = strings.ToLower(strings.TrimSpace(record[i]))
		}
		row.ID = archiveRowID(row)
		rows = append(rows, row)
	}
	return rows, nil
}

// archiveRowID derives a stable UUID from the row's natural key so the
// same set never inserts twice.
func archiveRowID(r models.SetArchiveRow) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%d", r.SessionDate.UTC().Format(time.RFC3339), r.Lift, r.SetNumber)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

func parseSessionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid session date %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
