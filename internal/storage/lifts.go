package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/weights"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no lift matches the given id or slug.
var ErrNotFound = errors.New("not found")

const liftColumns = `id, name, slug, work_weight, notes, barbell, template, updated_at`

// validateLift rejects rows the calculator cannot serve. Both backends call it
// before writing; the SQL CHECKs back it up.
func validateLift(lift models.Lift, specs []models.SetSpecRow) error {
	if !weights.ValidWorkWeight(lift.WorkWeight) {
		return fmt.Errorf("lift %s: work weight %g outside [0, %d]", lift.Name, lift.WorkWeight, weights.MaxWeight)
	}
	for _, r := range specs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("lift %s set %d: %w", lift.Name, r.Position, err)
		}
	}
	return nil
}

// CountLifts returns the number of stored lifts.
func (db *DB) CountLifts(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM lifts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting lifts: %w", err)
	}
	return n, nil
}

// ListLifts returns all lifts in creation order.
func (db *DB) ListLifts(ctx context.Context) ([]models.Lift, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+liftColumns+` FROM lifts ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying lifts: %w", err)
	}
	defer rows.Close()

	var result []models.Lift
	for rows.Next() {
		l, err := scanLift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// GetLift returns a single lift by ID.
func (db *DB) GetLift(ctx context.Context, id uuid.UUID) (*models.Lift, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+liftColumns+` FROM lifts WHERE id = $1`, id)
	l, err := scanLift(row)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLiftBySlug returns a single lift by its URL slug.
func (db *DB) GetLiftBySlug(ctx context.Context, slug string) (*models.Lift, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+liftColumns+` FROM lifts WHERE slug = $1`, slug)
	l, err := scanLift(row)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanLift(row pgx.Row) (models.Lift, error) {
	var l models.Lift
	err := row.Scan(&l.ID, &l.Name, &l.Slug, &l.WorkWeight, &l.Notes, &l.Barbell, &l.Template, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	if err != nil {
		return l, fmt.Errorf("scanning lift: %w", err)
	}
	return l, nil
}

// InsertLift stores a lift and its set rows in one transaction.
func (db *DB) InsertLift(ctx context.Context, lift models.Lift, specs []models.SetSpecRow) error {
	if err := validateLift(lift, specs); err != nil {
		return err
	}
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO lifts (id, name, slug, work_weight, notes, barbell, template)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		lift.ID, lift.Name, lift.Slug, lift.WorkWeight, lift.Notes, lift.Barbell, lift.Template)
	if err != nil {
		return fmt.Errorf("inserting lift %s: %w", lift.Name, err)
	}

	if len(specs) > 0 {
		query := `INSERT INTO set_specs (id, lift_id, position, sets, reps, percent_of_working_weight) VALUES `
		args := make([]any, 0, len(specs)*6)
		valueStrings := make([]string, 0, len(specs))
		for i, s := range specs {
			base := i * 6
			valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
			args = append(args, s.ID, lift.ID, s.Position, s.Sets, s.Reps, s.PercentOfWorkingWeight)
		}
		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting set specs for %s: %w", lift.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing lift %s: %w", lift.Name, err)
	}
	return nil
}

// ListSetSpecs returns a lift's set rows in workout order.
func (db *DB) ListSetSpecs(ctx context.Context, liftID uuid.UUID) ([]models.SetSpecRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, lift_id, position, sets, reps, percent_of_working_weight
		 FROM set_specs WHERE lift_id = $1 ORDER BY position ASC`, liftID)
	if err != nil {
		return nil, fmt.Errorf("querying set specs: %w", err)
	}
	defer rows.Close()

	var result []models.SetSpecRow
	for rows.Next() {
		var r models.SetSpecRow
		if err := rows.Scan(&r.ID, &r.LiftID, &r.Position, &r.Sets, &r.Reps, &r.PercentOfWorkingWeight); err != nil {
			return nil, fmt.Errorf("scanning set spec: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpdateWorkWeight sets a lift's working weight.
func (db *DB) UpdateWorkWeight(ctx context.Context, id uuid.UUID, workWeight float64) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE lifts SET work_weight = $2, updated_at = NOW() WHERE id = $1`, id, workWeight)
	if err != nil {
		return fmt.Errorf("updating work weight for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNotes replaces a lift's notes.
func (db *DB) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE lifts SET notes = $2, updated_at = NOW() WHERE id = $1`, id, notes)
	if err != nil {
		return fmt.Errorf("updating notes for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
