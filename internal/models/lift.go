package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/claude/lifts/internal/weights"
	"github.com/google/uuid"
)

// Lift is a tracked exercise and the user-editable fields persisted for it.
type Lift struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	WorkWeight float64   `json:"work_weight"`
	Notes      string    `json:"notes"`
	Barbell    bool      `json:"barbell"`
	Template   string    `json:"template"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetSpecRow is a stored row of a lift's prescribed workout.
type SetSpecRow struct {
	ID       uuid.UUID `json:"id"`
	LiftID   uuid.UUID `json:"lift_id"`
	Position int       `json:"position"`
	weights.SetSpec
}

// LiftDetail is a lift with its sets resolved against the current working weight.
type LiftDetail struct {
	Lift
	DisplayName string                `json:"display_name"`
	Policy      weights.Policy        `json:"policy"`
	Sets        []weights.ComputedSet `json:"sets"`
}

// Slug lower-cases a lift name and removes all whitespace ("bench press" -> "benchpress").
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// DisplayName upper-cases the first letter of every word.
func DisplayName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Specs strips storage identity from rows, preserving order.
func Specs(rows []SetSpecRow) []weights.SetSpec {
	specs := make([]weights.SetSpec, len(rows))
	for i, r := range rows {
		specs[i] = r.SetSpec
	}
	return specs
}
