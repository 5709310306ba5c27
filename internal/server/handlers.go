package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/tracker"
	"github.com/claude/lifts/internal/weights"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListLifts(w http.ResponseWriter, r *http.Request) {
	lifts, err := s.tracker.Lifts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lifts)
}

func (s *Server) handleGetLift(w http.ResponseWriter, r *http.Request) {
	detail, err := s.tracker.Detail(r.Context(), chi.URLParam(r, "lift"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type workWeightRequest struct {
	WorkWeight *float64 `json:"work_weight"`
}

func (s *Server) handleSetWorkWeight(w http.ResponseWriter, r *http.Request) {
	var req workWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.WorkWeight == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "work_weight is required"})
		return
	}

	detail, err := s.tracker.SetWorkWeight(r.Context(), chi.URLParam(r, "lift"), *req.WorkWeight)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type notesRequest struct {
	Notes *string `json:"notes"`
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Notes == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "notes is required"})
		return
	}

	lift, err := s.tracker.SetNotes(r.Context(), chi.URLParam(r, "lift"), *req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lift)
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.Atoi(r.URL.Query().Get("weight"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter must be an integer"})
		return
	}
	if weight > weights.MaxWeight {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("weight must not exceed %d", weights.MaxWeight)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weight": weight,
		"plates": weights.Plates(weight),
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	workWeight, err := strconv.ParseFloat(q.Get("work_weight"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "work_weight parameter must be a number"})
		return
	}
	if !weights.ValidWorkWeight(workWeight) {
		s.writeError(w, tracker.ErrInvalidWeight)
		return
	}

	template := q.Get("template")
	if template == "" {
		template = models.ThreeByFive
	}

	policy := s.tracker.Policy()
	if p := q.Get("policy"); p != "" {
		policy, err = weights.ParsePolicy(p)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	barbell := true
	if b := q.Get("barbell"); b != "" {
		barbell, err = strconv.ParseBool(b)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "barbell parameter must be a boolean"})
			return
		}
	}

	sets, err := tracker.Calculate(workWeight, template, policy, barbell)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"work_weight": workWeight,
		"template":    template,
		"policy":      policy,
		"sets":        sets,
	})
}

// writeError maps tracker errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, tracker.ErrInvalidWeight):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
