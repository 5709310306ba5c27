package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/lifts/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// LocalDB keeps lifts in an on-device SQLite file. Timestamps are stored as
// Unix milliseconds.
type LocalDB struct {
	db *sql.DB
}

// OpenLocal opens (or creates) the SQLite database at dir/lifts.db.
func OpenLocal(dir string) (*LocalDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "lifts.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection instead of retrying on SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS lifts (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			slug        TEXT NOT NULL UNIQUE,
			work_weight REAL NOT NULL DEFAULT 0 CHECK (work_weight >= 0 AND work_weight <= 2000),
			notes       TEXT NOT NULL DEFAULT '',
			barbell     INTEGER NOT NULL DEFAULT 1,
			template    TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS set_specs (
			id                        TEXT PRIMARY KEY,
			lift_id                   TEXT NOT NULL REFERENCES lifts(id) ON DELETE CASCADE,
			position                  INTEGER NOT NULL,
			sets                      INTEGER NOT NULL CHECK (sets >= 1),
			reps                      INTEGER NOT NULL CHECK (reps >= 1),
			percent_of_working_weight REAL NOT NULL CHECK (percent_of_working_weight >= 0),
			UNIQUE (lift_id, position)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating local schema: %w", err)
		}
	}

	return &LocalDB{db: db}, nil
}

// Close closes the local database.
func (s *LocalDB) Close() error {
	return s.db.Close()
}

// CountLifts returns the number of stored lifts.
func (s *LocalDB) CountLifts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lifts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting lifts: %w", err)
	}
	return n, nil
}

// ListLifts returns all lifts in insertion order.
func (s *LocalDB) ListLifts(ctx context.Context) ([]models.Lift, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+liftColumns+` FROM lifts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying lifts: %w", err)
	}
	defer rows.Close()

	var result []models.Lift
	for rows.Next() {
		l, err := scanLocalLift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// GetLift returns a single lift by ID.
func (s *LocalDB) GetLift(ctx context.Context, id uuid.UUID) (*models.Lift, error) {
	l, err := scanLocalLift(s.db.QueryRowContext(ctx, `SELECT `+liftColumns+` FROM lifts WHERE id = ?`, id.String()))
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLiftBySlug returns a single lift by its URL slug.
func (s *LocalDB) GetLiftBySlug(ctx context.Context, slug string) (*models.Lift, error) {
	l, err := scanLocalLift(s.db.QueryRowContext(ctx, `SELECT `+liftColumns+` FROM lifts WHERE slug = ?`, slug))
	if err != nil {
		return nil, err
	}
	return &l, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalLift(row rowScanner) (models.Lift, error) {
	var l models.Lift
	var updatedMs int64
	err := row.Scan(&l.ID, &l.Name, &l.Slug, &l.WorkWeight, &l.Notes, &l.Barbell, &l.Template, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	if err != nil {
		return l, fmt.Errorf("scanning lift: %w", err)
	}
	l.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return l, nil
}

// InsertLift stores a lift and its set rows in one transaction.
func (s *LocalDB) InsertLift(ctx context.Context, lift models.Lift, specs []models.SetSpecRow) error {
	if err := validateLift(lift, specs); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lifts (id, name, slug, work_weight, notes, barbell, template, seq, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM lifts), ?)`,
		lift.ID.String(), lift.Name, lift.Slug, lift.WorkWeight, lift.Notes, lift.Barbell, lift.Template,
		time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting lift %s: %w", lift.Name, err)
	}

	for _, r := range specs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO set_specs (id, lift_id, position, sets, reps, percent_of_working_weight)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID.String(), lift.ID.String(), r.Position, r.Sets, r.Reps, r.PercentOfWorkingWeight)
		if err != nil {
			return fmt.Errorf("inserting set spec %d for %s: %w", r.Position, lift.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing lift %s: %w", lift.Name, err)
	}
	return nil
}

// ListSetSpecs returns a lift's set rows in workout order.
func (s *LocalDB) ListSetSpecs(ctx context.Context, liftID uuid.UUID) ([]models.SetSpecRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lift_id, position, sets, reps, percent_of_working_weight
		 FROM set_specs WHERE lift_id = ? ORDER BY position ASC`, liftID.String())
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
func (s *LocalDB) UpdateWorkWeight(ctx context.Context, id uuid.UUID, workWeight float64) error {
	return s.update(ctx, `UPDATE lifts SET work_weight = ?, updated_at = ? WHERE id = ?`, workWeight, id)
}

// UpdateNotes replaces a lift's notes.
func (s *LocalDB) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.update(ctx, `UPDATE lifts SET notes = ?, updated_at = ? WHERE id = ?`, notes, id)
}

func (s *LocalDB) update(ctx context.Context, query string, value any, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, query, value, time.Now().UnixMilli(), id.String())
	if err != nil {
		return fmt.Errorf("updating lift %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating lift %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
