package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/program"
	"github.com/meltforce/ironcycle/internal/storage"
)

func (s *Server) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	var params program.StartCycleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	cycle, err := s.svc.StartCycle(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, cycle)
}

func (s *Server) handleCurrentCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := s.db.CurrentCycle(r.Context())
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no cycle started"})
		return
	}
	writeJSON(w, http.StatusOK, cycle)
}

func (s *Server) handleGetTrainingMaxes(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	maxes, err := s.db.GetTrainingMaxes(r.Context(), cycleID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, maxes)
}

func (s *Server) handleSetTrainingMax(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	lift := chi.URLParam(r, "lift")

	var req struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Value < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must not be negative"})
		return
	}

	tm := &models.TrainingMax{CycleID: cycleID, Lift: lift, Value: req.Value}
	if err := s.db.UpsertTrainingMax(r.Context(), tm); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tm)
}

func (s *Server) handleGetDayPlan(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	week, day, ok := weekDayQuery(w, r)
	if !ok {
		return
	}

	items, err := s.svc.ResolveDay(r.Context(), cycleID, week, day)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"week":  week,
		"day":   day,
		"items": items,
	})
}

func (s *Server) handleLogLinear(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Lift    string `json:"lift"`
		Week    int    `json:"week"`
		Day     int    `json:"day"`
		Success bool   `json:"success"`
		Note    string `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	out, err := s.svc.LogLinearOutcome(r.Context(), cycleID, req.Lift, req.Week, req.Day, req.Success, req.Note)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearLinear(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	week, day, ok := weekDayQuery(w, r)
	if !ok {
		return
	}
	lift := r.URL.Query().Get("lift")
	if lift == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lift parameter required"})
		return
	}

	if err := s.svc.ClearLinearLog(r.Context(), cycleID, lift, week, day); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogStructuredSet(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Lift     string `json:"lift"`
		Week     int    `json:"week"`
		Day      int    `json:"day"`
		SetIndex int    `json:"set_index"`
		Reps     int    `json:"reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	updated, err := s.svc.LogStructuredSet(r.Context(), cycleID, req.Lift, req.Week, req.Day, req.SetIndex, req.Reps)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logged":           true,
		"new_training_max": updated,
	})
}

func (s *Server) handleClearStructuredSet(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	week, day, ok := weekDayQuery(w, r)
	if !ok {
		return
	}
	lift := r.URL.Query().Get("lift")
	setStr := r.URL.Query().Get("set")
	if lift == "" || setStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lift and set parameters required"})
		return
	}
	setIndex, err := strconv.Atoi(setStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "set must be an integer"})
		return
	}

	if err := s.svc.ClearStructuredSet(r.Context(), cycleID, lift, week, day, setIndex); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}

	var ov models.WeightOverride
	if err := json.NewDecoder(r.Body).Decode(&ov); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ov.CycleID = cycleID

	if err := s.svc.SetOverride(r.Context(), &ov); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	week, day, ok := weekDayQuery(w, r)
	if !ok {
		return
	}
	lift := r.URL.Query().Get("lift")
	if lift == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lift parameter required"})
		return
	}

	if err := s.svc.ClearOverride(r.Context(), cycleID, week, day, lift); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueryLogs(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := cycleIDParam(w, r)
	if !ok {
		return
	}
	logs, err := s.db.QueryLiftLogs(r.Context(), cycleID, r.URL.Query().Get("lift"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleImportSets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sets []models.SetArchiveRow `json:"sets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	inserted, err := s.db.InsertSetArchive(r.Context(), req.Sets)
	if err != nil {
		s.log.Error("set archive import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"received": len(req.Sets),
		"inserted": inserted,
	})
}

func (s *Server) handleQueryArchive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseArchiveTime(q.Get("start"), time.Time{})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start: " + err.Error()})
		return
	}
	end, err := parseArchiveTime(q.Get("end"), time.Now().UTC().AddDate(0, 0, 1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end: " + err.Error()})
		return
	}

	sets, err := s.db.QuerySetArchive(r.Context(), start, end, q.Get("lift"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(sets),
		"sets":  sets,
	})
}

// parseArchiveTime accepts a date or RFC3339 timestamp, falling back to
// def when the value is empty.
func parseArchiveTime(v string, def time.Time) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a date (2006-01-02) or RFC3339 timestamp", v)
	}
	return t, nil
}

func cycleIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cycle ID"})
		return uuid.Nil, false
	}
	return id, true
}

func weekDayQuery(w http.ResponseWriter, r *http.Request) (week, day int, ok bool) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return 0, 0, false
	}
	day, err = strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day parameter required"})
		return 0, 0, false
	}
	return week, day, true
}
