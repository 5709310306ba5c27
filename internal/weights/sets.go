package weights

import "fmt"

// Policy selects how a set's target weight is derived from the working weight.
type Policy string

const (
	// Percent uses each set's percentage of the working weight.
	Percent Policy = "percent"
	// Progression ignores percentages and ramps linearly from the bar by set position.
	Progression Policy = "progression"
)

// ParsePolicy maps a config or query value to a Policy. Empty means Percent.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Percent:
		return Percent, nil
	case Progression:
		return Progression, nil
	}
	return "", fmt.Errorf("unknown policy %q (want %q or %q)", s, Percent, Progression)
}

// SetSpec is one row of a prescribed workout.
type SetSpec struct {
	Sets                   int     `json:"sets"`
	Reps                   int     `json:"reps"`
	PercentOfWorkingWeight float64 `json:"percent_of_working_weight"`
}

// Validate checks the row is a usable prescription.
func (s SetSpec) Validate() error {
	if s.Sets < 1 {
		return fmt.Errorf("sets must be at least 1, got %d", s.Sets)
	}
	if s.Reps < 1 {
		return fmt.Errorf("reps must be at least 1, got %d", s.Reps)
	}
	if s.PercentOfWorkingWeight < 0 {
		return fmt.Errorf("percent must not be negative, got %g", s.PercentOfWorkingWeight)
	}
	return nil
}

// Label renders the row as "SETSxREPS".
func (s SetSpec) Label() string {
	return fmt.Sprintf("%dx%d", s.Sets, s.Reps)
}

// ComputedSet is a SetSpec resolved against a working weight. It is recomputed on
// every read and never stored.
type ComputedSet struct {
	Sets   int    `json:"sets"`
	Reps   int    `json:"reps"`
	Weight int    `json:"weight"`
	Plates string `json:"plates,omitempty"`
}

// ComputeSets resolves an ordered workout. Plates are filled only for barbell lifts.
func ComputeSets(workWeight float64, specs []SetSpec, policy Policy, barbell bool) []ComputedSet {
	out := make([]ComputedSet, 0, len(specs))
	for i, spec := range specs {
		var weight int
		switch policy {
		case Progression:
			weight = WeightForSetIndex(workWeight, i, len(specs))
		default:
			weight = WeightForSet(workWeight, spec.PercentOfWorkingWeight)
		}
		out = append(out, newComputedSet(spec, weight, barbell))
	}
	return out
}

func newComputedSet(spec SetSpec, weight int, barbell bool) ComputedSet {
	cs := ComputedSet{Sets: spec.Sets, Reps: spec.Reps, Weight: weight}
	if barbell {
		cs.Plates = Plates(weight)
	}
	return cs
}
