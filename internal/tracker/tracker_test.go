package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/storage"
	"github.com/claude/lifts/internal/weights"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	lifts   []models.Lift
	specs   map[uuid.UUID][]models.SetSpecRow
	failErr error
}

func newMemStore() *memStore {
	return &memStore{specs: make(map[uuid.UUID][]models.SetSpecRow)}
}

func (m *memStore) CountLifts(ctx context.Context) (int, error) {
	return len(m.lifts), m.failErr
}

func (m *memStore) ListLifts(ctx context.Context) ([]models.Lift, error) {
	return m.lifts, m.failErr
}

func (m *memStore) find(match func(models.Lift) bool) (*models.Lift, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	for i := range m.lifts {
		if match(m.lifts[i]) {
			l := m.lifts[i]
			return &l, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetLift(ctx context.Context, id uuid.UUID) (*models.Lift, error) {
	return m.find(func(l models.Lift) bool { return l.ID == id })
}

func (m *memStore) GetLiftBySlug(ctx context.Context, slug string) (*models.Lift, error) {
	return m.find(func(l models.Lift) bool { return l.Slug == slug })
}

func (m *memStore) ListSetSpecs(ctx context.Context, liftID uuid.UUID) ([]models.SetSpecRow, error) {
	return m.specs[liftID], m.failErr
}

func (m *memStore) InsertLift(ctx context.Context, lift models.Lift, specs []models.SetSpecRow) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.lifts = append(m.lifts, lift)
	m.specs[lift.ID] = specs
	return nil
}

func (m *memStore) update(id uuid.UUID, fn func(*models.Lift)) error {
	for i := range m.lifts {
		if m.lifts[i].ID == id {
			fn(&m.lifts[i])
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) UpdateWorkWeight(ctx context.Context, id uuid.UUID, w float64) error {
	return m.update(id, func(l *models.Lift) { l.WorkWeight = w })
}

func (m *memStore) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return m.update(id, func(l *models.Lift) { l.Notes = notes })
}

func newTestTracker(t *testing.T, policy weights.Policy) (*Tracker, *memStore) {
	t.Helper()
	store := newMemStore()
	tr := New(store, policy, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := tr.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return tr, store
}

// TestSeedIdempotent verifies seeding only populates an empty store.
func TestSeedIdempotent(t *testing.T) {
	tr, store := newTestTracker(t, weights.Percent)
	if len(store.lifts) != 5 {
		t.Fatalf("lifts after seed = %d, want 5", len(store.lifts))
	}
	n, err := tr.Seed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(store.lifts) != 5 {
		t.Errorf("second seed added %d lifts (total %d)", n, len(store.lifts))
	}
}

// TestLiftByIDOrSlug verifies lookups accept either a UUID or a name-derived slug.
func TestLiftByIDOrSlug(t *testing.T) {
	tr, store := newTestTracker(t, weights.Percent)
	ctx := context.Background()
	bench := store.lifts[1]

	for _, ref := range []string{bench.ID.String(), "benchpress", "bench press", "Bench Press"} {
		got, err := tr.Lift(ctx, ref)
		if err != nil {
			t.Fatalf("Lift(%q): %v", ref, err)
		}
		if got.ID != bench.ID {
			t.Errorf("Lift(%q) = %s, want %s", ref, got.Name, bench.Name)
		}
	}

	if _, err := tr.Lift(ctx, "curls"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lift(curls) error = %v, want ErrNotFound", err)
	}
	if _, err := tr.Lift(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lift(random uuid) error = %v, want ErrNotFound", err)
	}
}

// TestDetail verifies computed sets follow the stored working weight and template.
func TestDetail(t *testing.T) {
	tr, _ := newTestTracker(t, weights.Percent)
	d, err := tr.Detail(context.Background(), "squats")
	if err != nil {
		t.Fatal(err)
	}
	if d.DisplayName != "Squats" {
		t.Errorf("display name = %q", d.DisplayName)
	}
	if d.Policy != weights.Percent {
		t.Errorf("policy = %q", d.Policy)
	}
	want := []weights.ComputedSet{
		{Sets: 2, Reps: 5, Weight: 45, Plates: "bar"},
		{Sets: 1, Reps: 5, Weight: 110, Plates: "25 5 2.5"},
		{Sets: 1, Reps: 3, Weight: 170, Plates: "45 10 5 2.5"},
		{Sets: 1, Reps: 2, Weight: 225, Plates: "45 45"},
		{Sets: 3, Reps: 5, Weight: 280, Plates: "45 45 25 2.5"},
	}
	if len(d.Sets) != len(want) {
		t.Fatalf("sets = %d, want %d", len(d.Sets), len(want))
	}
	for i := range want {
		if d.Sets[i] != want[i] {
			t.Errorf("set %d = %+v, want %+v", i, d.Sets[i], want[i])
		}
	}
}

// TestDetailProgression verifies the tracker passes its policy through to the calculator.
func TestDetailProgression(t *testing.T) {
	tr, _ := newTestTracker(t, weights.Progression)
	d, err := tr.Detail(context.Background(), "squats")
	if err != nil {
		t.Fatal(err)
	}
	if d.Sets[1].Weight != 105 {
		t.Errorf("second set = %d, want 105", d.Sets[1].Weight)
	}
}

// TestSetWorkWeight verifies an edit persists and the returned detail is recomputed.
func TestSetWorkWeight(t *testing.T) {
	tr, store := newTestTracker(t, weights.Percent)
	d, err := tr.SetWorkWeight(context.Background(), "deadlifts", 335)
	if err != nil {
		t.Fatal(err)
	}
	if store.lifts[4].WorkWeight != 335 {
		t.Errorf("stored work weight = %v, want 335", store.lifts[4].WorkWeight)
	}
	last := d.Sets[len(d.Sets)-1]
	if last.Weight != 335 || last.Plates != "45 45 45 10" {
		t.Errorf("work set = %+v", last)
	}
}

func TestSetWorkWeightInvalid(t *testing.T) {
	tr, _ := newTestTracker(t, weights.Percent)
	for _, w := range []float64{-5, math.NaN(), math.Inf(1), weights.MaxWeight + 5, 1e13} {
		if _, err := tr.SetWorkWeight(context.Background(), "rows", w); !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("SetWorkWeight(%v) error = %v, want ErrInvalidWeight", w, err)
		}
	}
	if _, err := tr.SetWorkWeight(context.Background(), "curls", 50); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown lift error = %v, want ErrNotFound", err)
	}
}

func TestSetNotes(t *testing.T) {
	tr, _ := newTestTracker(t, weights.Percent)
	l, err := tr.SetNotes(context.Background(), "rows", "pendlay style")
	if err != nil {
		t.Fatal(err)
	}
	if l.Notes != "pendlay style" {
		t.Errorf("notes = %q", l.Notes)
	}
}

// TestStoreErrorPropagates verifies backend failures are not reported as not-found.
func TestStoreErrorPropagates(t *testing.T) {
	tr, store := newTestTracker(t, weights.Percent)
	boom := errors.New("connection reset")
	store.failErr = boom

	if _, err := tr.Lifts(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Lifts error = %v, want %v", err, boom)
	}
	if _, err := tr.Detail(context.Background(), "squats"); !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("Detail error = %v, want %v", err, boom)
	}
}

func TestLiftsEmptyStore(t *testing.T) {
	tr := New(newMemStore(), weights.Percent, slog.New(slog.NewTextHandler(io.Discard, nil)))
	lifts, err := tr.Lifts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if lifts == nil || len(lifts) != 0 {
		t.Errorf("Lifts = %#v, want empty non-nil slice", lifts)
	}
}

func TestCalculate(t *testing.T) {
	sets, err := Calculate(200, models.OneByFive, weights.Percent, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := sets[len(sets)-1]; got.Weight != 200 || got.Sets != 1 {
		t.Errorf("work set = %+v", got)
	}
	if _, err := Calculate(200, "5x5", weights.Percent, true); err == nil {
		t.Error("expected error for unknown template")
	}
	for _, w := range []float64{math.NaN(), -1, 1e20} {
		if _, err := Calculate(w, models.ThreeByFive, weights.Percent, true); !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("Calculate(%v) error = %v, want ErrInvalidWeight", w, err)
		}
	}
}
