// Package kde turns posterior samples into a smoothed density over
// (log10 Gμ, log10 P) and finds credible-region thresholds on it.
package kde

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"cosmicstring-pta/internal/sampler"
)

var ErrInvalidInput = errors.New("invalid kde input")

// Cell is one grid point of the estimate.
type Cell struct {
	LogGmu  float64
	LogP    float64
	Density float64
}

// Grid is a gridSize x gridSize density estimate. Density[i][j] is the value
// at LogP axis point i and LogGmu axis point j; Cells lists the same points
// in that row-major order.
type Grid struct {
	Cells     []Cell
	Density   [][]float64
	LogGmuMin float64
	LogGmuMax float64
	LogPMin   float64
	LogPMax   float64
	GridSize  int
	Bandwidth float64
}

// Estimate builds an isotropic Gaussian KDE with bandwidth h. The grid spans
// the sample range widened by h on each side.
func Estimate(samples []sampler.Sample, gridSize int, h float64) (*Grid, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}
	if gridSize < 1 {
		return nil, fmt.Errorf("%w: grid size must be >= 1, got %d", ErrInvalidInput, gridSize)
	}
	if !(h > 0) {
		return nil, fmt.Errorf("%w: bandwidth must be > 0, got %g", ErrInvalidInput, h)
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		if !(s.Gmu > 0) {
			return nil, fmt.Errorf("%w: sample %d has Gmu=%g", ErrInvalidInput, i, s.Gmu)
		}
		xs[i] = math.Log10(s.Gmu)
		ys[i] = s.LogP
	}

	g := &Grid{
		LogGmuMin: floats.Min(xs) - h,
		LogGmuMax: floats.Max(xs) + h,
		LogPMin:   floats.Min(ys) - h,
		LogPMax:   floats.Max(ys) + h,
		GridSize:  gridSize,
		Bandwidth: h,
	}
	xAxis := axis(g.LogGmuMin, g.LogGmuMax, gridSize)
	yAxis := axis(g.LogPMin, g.LogPMax, gridSize)

	norm := 1 / (float64(len(samples)) * 2 * math.Pi * h * h)
	g.Density = make([][]float64, gridSize)
	g.Cells = make([]Cell, 0, gridSize*gridSize)
	for i, y := range yAxis {
		row := make([]float64, gridSize)
		for j, x := range xAxis {
			sum := 0.0
			for k := range xs {
				dx := (x - xs[k]) / h
				dy := (y - ys[k]) / h
				sum += math.Exp(-0.5 * (dx*dx + dy*dy))
			}
			row[j] = norm * sum
			g.Cells = append(g.Cells, Cell{LogGmu: x, LogP: y, Density: row[j]})
		}
		g.Density[i] = row
	}
	return g, nil
}

// axis returns n evenly spaced points covering [lo, hi]. A single point sits
// at lo.
func axis(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
