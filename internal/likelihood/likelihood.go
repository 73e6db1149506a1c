// Package likelihood scores (Gμ, log10 P) against PTA upper limits and an
// optional LISA forecast.
package likelihood

import (
	"math"

	"cosmicstring-pta/internal/spectrum"
)

// Flat prior box, edges inclusive. The Gμ edges are compared in linear space
// so 1e-15 and 1e-6 themselves are inside regardless of log10 rounding.
const (
	LogGmuMin = -15.0
	LogGmuMax = -6.0
	LogPMin   = -4.0
	LogPMax   = 0.0

	GmuMin = 1e-15
	GmuMax = 1e-6
)

// UpperLimitLogLikelihood is a one-sided Gaussian: no penalty while the model
// stays under the limit.
func UpperLimitLogLikelihood(model, upperLimit, sigma float64) float64 {
	if sigma <= 0 {
		return math.Inf(-1)
	}
	if model <= upperLimit {
		return 0
	}
	r := (model - upperLimit) / sigma
	return -0.5 * r * r
}

// LogPrior is flat in log10(Gμ) and log10(P) inside the box and -Inf outside.
func LogPrior(gmu, logP float64) float64 {
	if !(gmu > 0) || math.IsNaN(logP) {
		return math.Inf(-1)
	}
	if gmu < GmuMin || gmu > GmuMax || logP < LogPMin || logP > LogPMax {
		return math.Inf(-1)
	}
	return 0
}

// InPriorBox reports whether LogPrior is finite at (gmu, logP).
func InPriorBox(gmu, logP float64) bool {
	return !math.IsInf(LogPrior(gmu, logP), -1)
}

// Engine evaluates likelihoods with a fixed spectrum model and physics options.
type Engine struct {
	Model   *spectrum.Model
	Physics spectrum.Options
}

func NewEngine(model *spectrum.Model, physics spectrum.Options) *Engine {
	if model == nil {
		model = spectrum.NewModel(nil)
	}
	return &Engine{Model: model, Physics: physics.WithDefaults()}
}

// LogLikelihoodPTA sums the upper-limit penalty over every PTA bin.
func (e *Engine) LogLikelihoodPTA(gmu, logP float64, d *PTADataset) float64 {
	p := math.Pow(10, logP)
	total := 0.0
	for i, f := range d.Frequencies {
		model := e.Model.OmegaGW(f, gmu, p, e.Physics)
		total += UpperLimitLogLikelihood(model, d.UpperLimits[i], d.Errors[i])
		if math.IsInf(total, -1) {
			return total
		}
	}
	return total
}

// LogLikelihoodLISA is a two-sided Gaussian against the forecast curve. Bins
// with sigma <= 0 are skipped and an absent dataset contributes 0.
func (e *Engine) LogLikelihoodLISA(gmu, logP float64, d *LISADataset) float64 {
	if d.Len() == 0 {
		return 0
	}
	p := math.Pow(10, logP)
	total := 0.0
	for i, f := range d.Frequencies {
		sigma := d.Sigma[i]
		if sigma <= 0 {
			continue
		}
		r := (e.Model.OmegaGW(f, gmu, p, e.Physics) - d.Omega[i]) / sigma
		total += -0.5 * r * r
	}
	return total
}

// PosteriorOptions carries the optional LISA term.
type PosteriorOptions struct {
	LISA    *LISADataset
	UseLISA bool
}

// LogPosterior adds prior and likelihood terms, returning -Inf as soon as one
// of them is not finite so later terms never evaluate the spectrum.
func (e *Engine) LogPosterior(gmu, logP float64, pta *PTADataset, opts PosteriorOptions) float64 {
	lp := LogPrior(gmu, logP)
	if !isFinite(lp) {
		return math.Inf(-1)
	}

	ll := e.LogLikelihoodPTA(gmu, logP, pta)
	if !isFinite(ll) {
		return math.Inf(-1)
	}

	lisa := 0.0
	if opts.UseLISA {
		lisa = e.LogLikelihoodLISA(gmu, logP, opts.LISA)
		if !isFinite(lisa) {
			return math.Inf(-1)
		}
	}
	return lp + ll + lisa
}

// Target binds the datasets so the result can be handed to the sampler.
func (e *Engine) Target(pta *PTADataset, opts PosteriorOptions) func(gmu, logP float64) float64 {
	return func(gmu, logP float64) float64 {
		return e.LogPosterior(gmu, logP, pta, opts)
	}
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
