// Package sampler implements the Goodman-Weare affine-invariant ensemble
// sampler (stretch move) over the two parameters (Gμ, log10 P).
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const (
	// StretchScale is the stretch-move scale a.
	StretchScale = 2.0
	// NDim is the number of sampled parameters.
	NDim = 2

	// Fiducial starting point of the ensemble.
	FiducialGmu  = 1e-11
	FiducialLogP = -2.0
)

var ErrInvalidOptions = errors.New("invalid sampler options")

// LogDensity returns the unnormalised log posterior at (gmu, logP).
type LogDensity func(gmu, logP float64) float64

// Walker is one member of the ensemble.
type Walker struct {
	Gmu     float64
	LogP    float64
	LogProb float64
}

// Sample is one retained posterior draw.
type Sample struct {
	Gmu  float64
	LogP float64
}

// Progress is reported between sweeps.
type Progress struct {
	Step           int // sweeps completed
	TotalSteps     int
	AcceptanceRate float64
}

type Options struct {
	NWalkers int
	NSteps   int
	// BurnIn is the fraction of sweeps, in [0, 1), discarded before recording.
	BurnIn float64
	// ProgressEvery is the reporting cadence in sweeps. The final sweep is
	// always reported; values <= 0 report only the final sweep.
	ProgressEvery int
	Source        Source
	OnProgress    func(Progress)
}

func DefaultOptions() Options {
	return Options{
		NWalkers:      16,
		NSteps:        200,
		BurnIn:        0.3,
		ProgressEvery: 10,
	}
}

func (o Options) Validate() error {
	switch {
	case o.NWalkers < 2:
		return fmt.Errorf("%w: need at least 2 walkers, got %d", ErrInvalidOptions, o.NWalkers)
	case o.NSteps < 1:
		return fmt.Errorf("%w: need at least 1 step, got %d", ErrInvalidOptions, o.NSteps)
	case !(o.BurnIn >= 0 && o.BurnIn < 1):
		return fmt.Errorf("%w: burn-in fraction must be in [0,1), got %g", ErrInvalidOptions, o.BurnIn)
	case o.Source == nil:
		return fmt.Errorf("%w: random source is required", ErrInvalidOptions)
	}
	return nil
}

// BurnInSteps is floor(NSteps * BurnIn).
func (o Options) BurnInSteps() int {
	return int(math.Floor(float64(o.NSteps) * o.BurnIn))
}

type Result struct {
	Samples        []Sample
	LogProbs       []float64
	AcceptanceRate float64
	NWalkers       int
	NSteps         int
	BurnIn         float64
	// StepsCompleted is less than NSteps only when the run was cancelled.
	StepsCompleted int
	Cancelled      bool
	Walkers        []Walker // final ensemble state
}

// Run samples target with the stretch move. Walkers are updated one after
// another within a sweep, so a proposal for walker w sees the already updated
// positions of walkers before it.
//
// ctx is checked once per sweep. On cancellation Run returns the samples
// gathered so far with Cancelled set and a nil error.
func Run(ctx context.Context, target LogDensity, opts Options) (*Result, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target density is required", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := opts.Source
	n := opts.NWalkers
	burnIn := opts.BurnInSteps()

	walkers := make([]Walker, n)
	for i := range walkers {
		gmu := FiducialGmu * math.Exp(0.3*(rng.Float64()-0.5))
		logP := FiducialLogP + 0.5*(rng.Float64()-0.5)
		walkers[i] = Walker{Gmu: gmu, LogP: logP, LogProb: target(gmu, logP)}
	}

	kept := n * (opts.NSteps - burnIn)
	res := &Result{
		Samples:  make([]Sample, 0, kept),
		LogProbs: make([]float64, 0, kept),
		NWalkers: n,
		NSteps:   opts.NSteps,
		BurnIn:   opts.BurnIn,
	}

	accepted, proposed := 0, 0
	for step := 0; step < opts.NSteps; step++ {
		if err := ctx.Err(); err != nil {
			res.Cancelled = true
			break
		}

		for w := 0; w < n; w++ {
			j := pickOther(rng, w, n)
			z := stretch(rng.Float64())

			cur, other := walkers[w], walkers[j]
			gmu := other.Gmu + z*(cur.Gmu-other.Gmu)
			logP := other.LogP + z*(cur.LogP-other.LogP)
			lp := target(gmu, logP)

			proposed++
			logAccept := float64(NDim-1)*math.Log(z) + logProbDelta(lp, cur.LogProb)
			if math.Log(rng.Float64()) < logAccept {
				walkers[w] = Walker{Gmu: gmu, LogP: logP, LogProb: lp}
				accepted++
			}

			if step >= burnIn {
				res.Samples = append(res.Samples, Sample{Gmu: walkers[w].Gmu, LogP: walkers[w].LogP})
				res.LogProbs = append(res.LogProbs, walkers[w].LogProb)
			}
		}

		res.StepsCompleted = step + 1
		if proposed > 0 {
			res.AcceptanceRate = float64(accepted) / float64(proposed)
		}

		if opts.OnProgress != nil {
			last := step == opts.NSteps-1
			if last || (opts.ProgressEvery > 0 && (step+1)%opts.ProgressEvery == 0) {
				opts.OnProgress(Progress{
					Step:           step + 1,
					TotalSteps:     opts.NSteps,
					AcceptanceRate: res.AcceptanceRate,
				})
			}
		}
	}

	res.Walkers = walkers
	return res, nil
}

// pickOther draws j != w uniformly from [0, n).
func pickOther(rng Source, w, n int) int {
	j := int(rng.Float64() * float64(n-1))
	if j >= n-1 {
		j = n - 2
	}
	if j >= w {
		j++
	}
	return j
}

// stretch maps u ~ U(0,1) to z ~ g(z) ∝ 1/sqrt(z) on [1/a, a].
func stretch(u float64) float64 {
	const a = StretchScale
	v := (a-1)*u + 1
	return v * v / a
}

// logProbDelta is proposed - current, defined as 0 when both are -Inf so a
// chain stuck outside the support still moves on the stretch factor alone.
func logProbDelta(proposed, current float64) float64 {
	if math.IsInf(proposed, -1) && math.IsInf(current, -1) {
		return 0
	}
	d := proposed - current
	if math.IsNaN(d) {
		return math.Inf(-1)
	}
	return d
}
