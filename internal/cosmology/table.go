// Package cosmology tabulates the background expansion history used by the
// spectrum model: cosmic age, |dt/dz| and the Hubble rate on a redshift grid.
package cosmology

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Flat ΛCDM background (Planck 2018).
const (
	// H0 is the Hubble constant, 67.4 km/s/Mpc expressed in 1/s.
	H0      = 67.4 * 1e3 / 3.0856775814913673e22
	OmegaM  = 0.315
	OmegaL  = 0.685
	GNewton = 6.67430e-11 // m^3 kg^-1 s^-2
)

// Table holds the background quantities sampled on an evenly spaced redshift
// grid. Z is strictly increasing and Age strictly decreasing.
type Table struct {
	ZMax float64
	NZ   int

	Z      []float64
	Age    []float64
	DtDz   []float64
	Hubble []float64

	age    interp.PiecewiseLinear
	dtdz   interp.PiecewiseLinear
	hubble interp.PiecewiseLinear
}

// Build tabulates the background for z in [0, zMax] with nz points.
// Callers must ensure zMax > 0 and nz >= 2.
//
// The age uses the matter-dominated closed form t = (2/3H0) a^1.5 rather than
// the exact ΛCDM integral.
func Build(zMax float64, nz int) *Table {
	t := &Table{
		ZMax:   zMax,
		NZ:     nz,
		Z:      make([]float64, nz),
		Age:    make([]float64, nz),
		DtDz:   make([]float64, nz),
		Hubble: make([]float64, nz),
	}

	for i := 0; i < nz; i++ {
		z := zMax * float64(i) / float64(nz-1)
		a := 1 / (1 + z)
		e := math.Sqrt(OmegaM*math.Pow(1+z, 3) + OmegaL)
		h := H0 * e

		t.Z[i] = z
		t.Age[i] = (2.0 / 3.0 / H0) * math.Pow(a, 1.5)
		t.DtDz[i] = 1 / (h * (1 + z))
		t.Hubble[i] = h
	}

	// Fit only fails on unsorted or short input, which the grid construction rules out.
	_ = t.age.Fit(t.Z, t.Age)
	_ = t.dtdz.Fit(t.Z, t.DtDz)
	_ = t.hubble.Fit(t.Z, t.Hubble)
	return t
}

// AgeAt returns the interpolated cosmic age in seconds.
func (t *Table) AgeAt(z float64) float64 { return t.age.Predict(z) }

// DtDzAt returns the interpolated |dt/dz| in seconds.
func (t *Table) DtDzAt(z float64) float64 { return t.dtdz.Predict(z) }

// HubbleAt returns the interpolated Hubble rate in 1/s.
func (t *Table) HubbleAt(z float64) float64 { return t.hubble.Predict(z) }

// Interpolate linearly interpolates ys at x using a binary search over the
// increasing abscissae xs. Outside [xs[0], xs[n-1]] the boundary value is
// returned. It needs no fitted predictor, so it also serves arbitrary slices
// such as a Table's raw columns; the Table accessors give the same values.
func Interpolate(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}

	// First index with xs[i] > x; x lies in [xs[i-1], xs[i]).
	i := sort.Search(n, func(i int) bool { return xs[i] > x })
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
