package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
)

func (s *Server) handleCalcRepMax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weight    float64 `json:"weight"`
		Reps      int     `json:"reps"`
		Increment float64 `json:"increment,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	est, err := engine.EstimateRepMax(req.Weight, req.Reps)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	increment := req.Increment
	if increment <= 0 {
		increment = 5
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"estimate": est,
		"table":    engine.PercentTable(est.Mean, increment),
	})
}

func (s *Server) handleCalcPlates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target    float64           `json:"target"`
		BarWeight float64           `json:"bar_weight,omitempty"`
		Unit      models.UnitSystem `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.Unit.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit must be \"lb\" or \"kg\""})
		return
	}

	result, err := engine.CalculatePlates(req.Target, req.BarWeight, req.Unit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCalcScores(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BodyweightKg float64    `json:"bodyweight_kg"`
		TotalKg      float64    `json:"total_kg"`
		Sex          models.Sex `json:"sex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	type score struct {
		Value float64 `json:"value"`
		OK    bool    `json:"ok"`
	}
	wilks, wilksOK, err := engine.WilksScore(req.BodyweightKg, req.TotalKg, req.Sex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	dots, dotsOK, _ := engine.DotsScore(req.BodyweightKg, req.TotalKg, req.Sex)
	glp, glpOK, _ := engine.IPFGLPoints(req.BodyweightKg, req.TotalKg, req.Sex)

	writeJSON(w, http.StatusOK, map[string]score{
		"wilks":  {Value: engine.RoundDecimals(wilks, 2), OK: wilksOK},
		"dots":   {Value: engine.RoundDecimals(dots, 2), OK: dotsOK},
		"ipf_gl": {Value: engine.RoundDecimals(glp, 2), OK: glpOK},
	})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ListTemplates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template ID"})
		return
	}
	tpl, err := s.db.GetTemplate(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl models.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if problems := tpl.Validate(); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"valid": false, "problems": problems})
		return
	}
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	if err := s.db.InsertTemplate(r.Context(), &tpl); err != nil {
		s.log.Error("template insert error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// handleValidateTemplate checks a template without persisting it, so
// clients can lint drafts while editing.
func (s *Server) handleValidateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl models.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	problems := tpl.Validate()
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    len(problems) == 0,
		"problems": problems,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
