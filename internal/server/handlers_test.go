package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/storage"
	"github.com/claude/lifts/internal/tracker"
	"github.com/claude/lifts/internal/weights"
)

const testAPIKey = "test-key"

// newTestServer builds a server over a seeded SQLite store in a temp dir.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.OpenLocal(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := tracker.New(db, weights.Percent, log)
	if _, err := tr.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return New(tr, testAPIKey, log)
}

func do(t *testing.T, s *Server, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if authed {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHandleListLifts(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/lifts", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var lifts []models.Lift
	if err := json.NewDecoder(rec.Body).Decode(&lifts); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(lifts) != 5 {
		t.Fatalf("lifts = %d, want 5", len(lifts))
	}
	if lifts[0].Name != "squats" {
		t.Errorf("first lift = %q, want squats", lifts[0].Name)
	}
}

// TestHandleGetLiftBySlug verifies the detail view resolves slugs and includes computed sets.
func TestHandleGetLiftBySlug(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/lifts/benchpress", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var d models.LiftDetail
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if d.DisplayName != "Bench Press" {
		t.Errorf("display_name = %q", d.DisplayName)
	}
	if len(d.Sets) != 5 {
		t.Fatalf("sets = %d, want 5", len(d.Sets))
	}
	if last := d.Sets[4]; last.Weight != 180 || last.Plates != "45 10 10 2.5" {
		t.Errorf("work set = %+v", last)
	}
}

func TestHandleGetLiftNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/lifts/curls", "", false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestHandleSetWorkWeight verifies an authorized edit persists and returns recomputed sets.
func TestHandleSetWorkWeight(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/lifts/squats/work-weight", `{"work_weight": 315}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var d models.LiftDetail
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if d.WorkWeight != 315 {
		t.Errorf("work_weight = %v, want 315", d.WorkWeight)
	}
	if last := d.Sets[len(d.Sets)-1]; last.Plates != "45 45 45" {
		t.Errorf("work set plates = %q, want %q", last.Plates, "45 45 45")
	}

	// Reads see the new value
	rec = do(t, s, http.MethodGet, "/api/v1/lifts/squats", "", false)
	var again models.LiftDetail
	json.NewDecoder(rec.Body).Decode(&again)
	if again.WorkWeight != 315 {
		t.Errorf("persisted work_weight = %v, want 315", again.WorkWeight)
	}
}

func TestHandleSetWorkWeightErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		authed bool
		want   int
	}{
		{"no key", "/api/v1/lifts/squats/work-weight", `{"work_weight": 100}`, false, http.StatusUnauthorized},
		{"bad json", "/api/v1/lifts/squats/work-weight", `{`, true, http.StatusBadRequest},
		{"missing field", "/api/v1/lifts/squats/work-weight", `{}`, true, http.StatusBadRequest},
		{"negative", "/api/v1/lifts/squats/work-weight", `{"work_weight": -10}`, true, http.StatusBadRequest},
		{"over max", "/api/v1/lifts/squats/work-weight", `{"work_weight": 1e13}`, true, http.StatusBadRequest},
		{"unknown lift", "/api/v1/lifts/curls/work-weight", `{"work_weight": 100}`, true, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPut, tt.path, tt.body, tt.authed)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandleSetNotes(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/lifts/rows/notes", `{"notes": "strict form"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var l models.Lift
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if l.Notes != "strict form" {
		t.Errorf("notes = %q", l.Notes)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/lifts/rows/notes", `{}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing notes status = %d, want 400", rec.Code)
	}
}

func TestHandlePlates(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		query string
		code  int
		want  string
	}{
		{"weight=45", http.StatusOK, "bar"},
		{"weight=220", http.StatusOK, "45 35 5 2.5"},
		{"weight=2000", http.StatusOK, "45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 45 25 5 2.5"},
		{"weight=2005", http.StatusBadRequest, ""},
		{"weight=900000000000000", http.StatusBadRequest, ""},
		{"weight=heavy", http.StatusBadRequest, ""},
		{"", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, "/api/v1/plates?"+tt.query, "", false)
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.query, rec.Code, tt.code)
			continue
		}
		if tt.code != http.StatusOK {
			continue
		}
		var body struct {
			Plates string `json:"plates"`
		}
		json.NewDecoder(rec.Body).Decode(&body)
		if body.Plates != tt.want {
			t.Errorf("%s: plates = %q, want %q", tt.query, body.Plates, tt.want)
		}
	}
}

func TestHandleCalculate(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/calculate?work_weight=200&template=1x5&policy=percent", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body struct {
		Policy string                `json:"policy"`
		Sets   []weights.ComputedSet `json:"sets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Policy != "percent" {
		t.Errorf("policy = %q", body.Policy)
	}
	if len(body.Sets) != 5 || body.Sets[4].Weight != 200 {
		t.Errorf("sets = %+v", body.Sets)
	}
}

func TestHandleCalculateErrors(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{
		"",
		"work_weight=abc",
		"work_weight=200&template=5x5",
		"work_weight=200&policy=linear",
		"work_weight=200&barbell=maybe",
		"work_weight=NaN",
		"work_weight=Inf",
		"work_weight=-Inf",
		"work_weight=1e13",
		"work_weight=-5",
	} {
		rec := do(t, s, http.MethodGet, "/api/v1/calculate?"+q, "", false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", q, rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
			t.Errorf("%q: body is not a JSON error (%v)", q, err)
		}
	}
}

// TestHandleSetWorkWeightOverMaxKeepsLift verifies a rejected edit leaves the stored weight readable.
func TestHandleSetWorkWeightOverMaxKeepsLift(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPut, "/api/v1/lifts/squats/work-weight", `{"work_weight": 10000000000000}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/lifts/squats", "", false)
	var d models.LiftDetail
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if d.WorkWeight != 280 {
		t.Errorf("work_weight = %v, want 280", d.WorkWeight)
	}
}
