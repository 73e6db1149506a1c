package kde

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Levels are the density thresholds enclosing the requested probability mass.
type Levels struct {
	Level68 float64
	Level95 float64
}

const (
	DefaultLevelA = 0.68
	DefaultLevelB = 0.95
)

// CredibleLevels returns, for each of levelA and levelB, the density at which
// the mass accumulated from the highest cell downwards first reaches that
// fraction of the total. An empty or all-zero grid yields zero thresholds.
func CredibleLevels(density [][]float64, levelA, levelB float64) Levels {
	var flat []float64
	for _, row := range density {
		flat = append(flat, row...)
	}
	if len(flat) == 0 {
		return Levels{}
	}

	slices.Sort(flat)
	slices.Reverse(flat)

	cum := floats.CumSum(make([]float64, len(flat)), flat)
	total := cum[len(cum)-1]
	if !(total > 0) {
		return Levels{}
	}

	return Levels{
		Level68: threshold(flat, cum, total, levelA),
		Level95: threshold(flat, cum, total, levelB),
	}
}

func threshold(sorted, cum []float64, total, level float64) float64 {
	for i, c := range cum {
		if c/total >= level {
			return sorted[i]
		}
	}
	// Rounding can leave the last fraction a hair under 1.
	return sorted[len(sorted)-1]
}

// DefaultCredibleLevels uses the 68% and 95% levels.
func DefaultCredibleLevels(density [][]float64) Levels {
	return CredibleLevels(density, DefaultLevelA, DefaultLevelB)
}
