package weights

import (
	"math"
	"strconv"
	"strings"
)

// BarWeight is the weight of an unloaded barbell.
const BarWeight = 45

// MaxWeight is the heaviest total any boundary accepts. Plates grows with the
// weight, so callers check input with ValidWorkWeight before computing.
const MaxWeight = 2000

// maxRounded is the largest multiple of 5 that fits in an int.
const maxRounded = math.MaxInt / 5 * 5

// Denominations are the available plates, in the order the greedy loader tries them.
var Denominations = []float64{45, 35, 25, 10, 5, 2.5}

// RoundToNearest5 rounds x to a multiple of 5. A remainder of exactly 2.5 rounds down.
// Non-finite input returns 0 and results outside the int range saturate.
func RoundToNearest5(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	base := math.Floor(x/5) * 5
	if x-base > 2.5 {
		base += 5
	}
	if base >= float64(math.MaxInt) {
		return maxRounded
	}
	if base <= float64(math.MinInt) {
		return -maxRounded
	}
	return int(base)
}

// ValidWorkWeight reports whether w is finite and within [0, MaxWeight].
func ValidWorkWeight(w float64) bool {
	return !math.IsNaN(w) && w >= 0 && w <= MaxWeight
}

// WeightForSet returns the target weight for a set prescribed as a percentage of the
// working weight. The result never drops below the empty bar.
func WeightForSet(workWeight, percent float64) int {
	return max(RoundToNearest5(workWeight*percent/100), BarWeight)
}

// WeightForSetIndex interpolates linearly from the empty bar on set 0 to the working
// weight on set n-1.
func WeightForSetIndex(workWeight float64, i, n int) int {
	if i == 0 {
		return BarWeight
	}
	if n <= 1 {
		return RoundToNearest5(workWeight)
	}
	increment := (workWeight - BarWeight) / float64(n-1)
	return RoundToNearest5(BarWeight + increment*float64(i))
}

// Plates returns the plates needed on each side of the bar to load weight, largest
// first, or "bar" when the bar alone is enough. Weight the denominations cannot
// express is left off.
func Plates(weight int) string {
	if weight == BarWeight {
		return "bar"
	}

	current := float64(weight)
	var plates []string
	for _, plate := range Denominations {
		perSide := (current - BarWeight) / 2
		count := int(math.Floor(perSide / plate))
		if count <= 0 {
			continue
		}
		label := strconv.FormatFloat(plate, 'f', -1, 64)
		for range count {
			plates = append(plates, label)
		}
		current -= float64(count) * plate * 2
	}
	return strings.Join(plates, " ")
}
