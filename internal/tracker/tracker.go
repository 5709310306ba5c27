package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/storage"
	"github.com/claude/lifts/internal/weights"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no lift matches an ID or slug.
	ErrNotFound = errors.New("lift not found")
	// ErrInvalidWeight is returned for working weights outside [0, weights.MaxWeight].
	ErrInvalidWeight = fmt.Errorf("work weight must be a number between 0 and %d", weights.MaxWeight)
)

// Store is the persistence boundary for lifts. Both *storage.DB (Postgres) and
// *storage.LocalDB (SQLite) satisfy it.
type Store interface {
	CountLifts(ctx context.Context) (int, error)
	ListLifts(ctx context.Context) ([]models.Lift, error)
	GetLift(ctx context.Context, id uuid.UUID) (*models.Lift, error)
	GetLiftBySlug(ctx context.Context, slug string) (*models.Lift, error)
	ListSetSpecs(ctx context.Context, liftID uuid.UUID) ([]models.SetSpecRow, error)
	InsertLift(ctx context.Context, lift models.Lift, specs []models.SetSpecRow) error
	UpdateWorkWeight(ctx context.Context, id uuid.UUID, workWeight float64) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// Compile-time checks: both storage backends satisfy Store.
var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*storage.LocalDB)(nil)
)

// Tracker owns lift state. Reads go through the store; set weights are recomputed
// on every detail call and never written back.
type Tracker struct {
	store  Store
	policy weights.Policy
	log    *slog.Logger
}

// New creates a Tracker using the given calculator policy.
func New(store Store, policy weights.Policy, log *slog.Logger) *Tracker {
	return &Tracker{store: store, policy: policy, log: log}
}

// Policy returns the calculator policy used for details.
func (t *Tracker) Policy() weights.Policy {
	return t.policy
}

// Seed inserts the default lifts when the store is empty. Returns the number of lifts added.
func (t *Tracker) Seed(ctx context.Context) (int, error) {
	n, err := t.store.CountLifts(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	lifts, rows := models.DefaultState()
	byLift := make(map[uuid.UUID][]models.SetSpecRow, len(lifts))
	for _, r := range rows {
		byLift[r.LiftID] = append(byLift[r.LiftID], r)
	}
	for _, l := range lifts {
		if err := t.store.InsertLift(ctx, l, byLift[l.ID]); err != nil {
			return 0, fmt.Errorf("seeding %s: %w", l.Name, err)
		}
	}
	t.log.Info("seeded default lifts", "count", len(lifts))
	return len(lifts), nil
}

// Lifts returns all lifts.
func (t *Tracker) Lifts(ctx context.Context) ([]models.Lift, error) {
	lifts, err := t.store.ListLifts(ctx)
	if err != nil {
		return nil, err
	}
	if lifts == nil {
		lifts = []models.Lift{}
	}
	return lifts, nil
}

// Lift resolves a lift by UUID, falling back to its slug.
func (t *Tracker) Lift(ctx context.Context, ref string) (*models.Lift, error) {
	var (
		lift *models.Lift
		err  error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		lift, err = t.store.GetLift(ctx, id)
	} else {
		lift, err = t.store.GetLiftBySlug(ctx, models.Slug(ref))
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return lift, nil
}

// Detail returns a lift with each prescribed set resolved against its working weight.
func (t *Tracker) Detail(ctx context.Context, ref string) (*models.LiftDetail, error) {
	lift, err := t.Lift(ctx, ref)
	if err != nil {
		return nil, err
	}
	rows, err := t.store.ListSetSpecs(ctx, lift.ID)
	if err != nil {
		return nil, err
	}
	return &models.LiftDetail{
		Lift:        *lift,
		DisplayName: models.DisplayName(lift.Name),
		Policy:      t.policy,
		Sets:        weights.ComputeSets(lift.WorkWeight, models.Specs(rows), t.policy, lift.Barbell),
	}, nil
}

// SetWorkWeight updates a lift's working weight and returns the recomputed detail.
func (t *Tracker) SetWorkWeight(ctx context.Context, ref string, workWeight float64) (*models.LiftDetail, error) {
	if !weights.ValidWorkWeight(workWeight) {
		return nil, ErrInvalidWeight
	}
	lift, err := t.Lift(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := t.store.UpdateWorkWeight(ctx, lift.ID, workWeight); err != nil {
		return nil, t.mapNotFound(err, ref)
	}
	t.log.Info("work weight updated", "lift", lift.Name, "from", lift.WorkWeight, "to", workWeight)
	return t.Detail(ctx, lift.ID.String())
}

// SetNotes replaces a lift's notes.
func (t *Tracker) SetNotes(ctx context.Context, ref, notes string) (*models.Lift, error) {
	lift, err := t.Lift(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := t.store.UpdateNotes(ctx, lift.ID, notes); err != nil {
		return nil, t.mapNotFound(err, ref)
	}
	return t.Lift(ctx, lift.ID.String())
}

func (t *Tracker) mapNotFound(err error, ref string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return err
}

// Calculate resolves a named template against an arbitrary working weight without touching the store.
func Calculate(workWeight float64, template string, policy weights.Policy, barbell bool) ([]weights.ComputedSet, error) {
	if !weights.ValidWorkWeight(workWeight) {
		return nil, ErrInvalidWeight
	}
	specs, err := models.Template(template)
	if err != nil {
		return nil, err
	}
	return weights.ComputeSets(workWeight, specs, policy, barbell), nil
}
