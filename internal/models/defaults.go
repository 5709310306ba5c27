package models

import (
	"fmt"

	"github.com/claude/lifts/internal/weights"
	"github.com/google/uuid"
)

// Template names.
const (
	ThreeByFive = "3x5"
	OneByFive   = "1x5"
)

// Templates are the built-in workouts: two empty-bar warm-ups, three ramp sets, then work sets.
var Templates = map[string][]weights.SetSpec{
	ThreeByFive: {
		{Sets: 2, Reps: 5, PercentOfWorkingWeight: 0},
		{Sets: 1, Reps: 5, PercentOfWorkingWeight: 40},
		{Sets: 1, Reps: 3, PercentOfWorkingWeight: 60},
		{Sets: 1, Reps: 2, PercentOfWorkingWeight: 80},
		{Sets: 3, Reps: 5, PercentOfWorkingWeight: 100},
	},
	OneByFive: {
		{Sets: 2, Reps: 5, PercentOfWorkingWeight: 0},
		{Sets: 1, Reps: 5, PercentOfWorkingWeight: 40},
		{Sets: 1, Reps: 3, PercentOfWorkingWeight: 60},
		{Sets: 1, Reps: 2, PercentOfWorkingWeight: 80},
		{Sets: 1, Reps: 5, PercentOfWorkingWeight: 100},
	},
}

// Template returns a copy of the named template.
func Template(name string) ([]weights.SetSpec, error) {
	specs, ok := Templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return append([]weights.SetSpec(nil), specs...), nil
}

var defaultLifts = []struct {
	name       string
	workWeight float64
	template   string
}{
	{"squats", 280, ThreeByFive},
	{"bench press", 180, ThreeByFive},
	{"rows", 175, ThreeByFive},
	{"overhead press", 110, ThreeByFive},
	{"deadlifts", 330, OneByFive},
}

// DefaultState returns the starter lifts and their set rows with fresh IDs.
func DefaultState() ([]Lift, []SetSpecRow) {
	var lifts []Lift
	var rows []SetSpecRow
	for _, d := range defaultLifts {
		lift := NewLift(d.name, d.workWeight, d.template)
		lifts = append(lifts, lift)
		rows = append(rows, NewSetSpecRows(lift.ID, Templates[d.template])...)
	}
	return lifts, rows
}

// NewLift builds a barbell lift with a new ID.
func NewLift(name string, workWeight float64, template string) Lift {
	return Lift{
		ID:         uuid.New(),
		Name:       name,
		Slug:       Slug(name),
		WorkWeight: workWeight,
		Barbell:    true,
		Template:   template,
	}
}

// NewSetSpecRows assigns IDs and positions to an ordered template.
func NewSetSpecRows(liftID uuid.UUID, specs []weights.SetSpec) []SetSpecRow {
	rows := make([]SetSpecRow, len(specs))
	for i, s := range specs {
		rows[i] = SetSpecRow{ID: uuid.New(), LiftID: liftID, Position: i, SetSpec: s}
	}
	return rows
}
