// Package spectrum predicts the gravitational-wave energy density Ω_gw(f)
// of a cosmic-superstring loop network.
package spectrum

import (
	"math"

	"cosmicstring-pta/internal/cosmology"
)

// Gamma is the total gravitational-wave emission efficiency of a loop.
const Gamma = 50.0

// Model evaluates Ω_gw using a redshift table from its cache.
type Model struct {
	cache *cosmology.Cache
}

// NewModel returns a Model backed by cache. A nil cache gets a private one.
func NewModel(cache *cosmology.Cache) *Model {
	if cache == nil {
		cache = cosmology.NewCache()
	}
	return &Model{cache: cache}
}

// Cache exposes the model's cosmology cache.
func (m *Model) Cache() *cosmology.Cache { return m.cache }

// CriticalDensity returns ρ_c = 3 H0² / (8π G) in kg/m³.
func CriticalDensity() float64 {
	return 3 * cosmology.H0 * cosmology.H0 / (8 * math.Pi * cosmology.GNewton)
}

// HarmonicWeights returns Γ/(k+1)^(4/3) for k = 0..nk-1.
func HarmonicWeights(nk int) []float64 {
	w := make([]float64, nk)
	for k := range w {
		w[k] = Gamma / math.Pow(float64(k+1), 4.0/3.0)
	}
	return w
}

// OmegaGW returns the predicted Ω_gw at frequency f (Hz) for string tension
// gmu and reconnection probability p. Non-positive inputs yield 0.
func (m *Model) OmegaGW(f, gmu, p float64, opts Options) float64 {
	if f <= 0 || gmu <= 0 || p <= 0 {
		return 0
	}
	opts = opts.WithDefaults()

	tab := m.cache.Table(opts.ZMax, opts.NZ)
	ceff := 0.1 * math.Pow(p, -0.6)
	rhoC := CriticalDensity()
	weights := HarmonicWeights(opts.Nk)
	tensionScale := math.Pow(gmu, -*opts.Beta)

	integrand := func(z float64) float64 {
		t := tab.AgeAt(z)
		if t <= 0 {
			return 0
		}
		dtdz := tab.DtDzAt(z)

		// Loop energy-density production rate.
		drhodt := ceff / (opts.Alpha * t * t * t * t) * tensionScale
		fObs := f * (1 + z)

		sum := 0.0
		for k, w := range weights {
			sum += 2 * float64(k+1) / fObs * w * gmu * gmu * drhodt / rhoC
		}
		return sum * dtdz
	}

	if opts.AbsoluteTol {
		return Integrate(integrand, 0, opts.ZMax, opts.AdaptiveTol, opts.MaxDepth)
	}
	return integrateRelative(integrand, 0, opts.ZMax, opts.AdaptiveTol, opts.MaxDepth)
}

// Spectrum evaluates OmegaGW at every frequency in freqs.
func (m *Model) Spectrum(freqs []float64, gmu, p float64, opts Options) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = m.OmegaGW(f, gmu, p, opts)
	}
	return out
}

// integrateRelative runs the adaptive Simpson rule with tolerance relTol
// scaled by the magnitude of the coarse whole-interval estimate. Ω_gw is many
// orders of magnitude below 1, so an absolute tolerance would never refine.
func integrateRelative(fn func(float64) float64, a, b, relTol float64, maxDepth int) float64 {
	fa, fb := fn(a), fn(b)
	fm := fn((a + b) / 2)
	whole := simpson(a, b, fa, fm, fb)

	tol := relTol
	if whole != 0 {
		tol = relTol * math.Abs(whole)
	}
	return adaptiveSimpson(fn, a, b, tol, whole, fa, fm, fb, maxDepth)
}
