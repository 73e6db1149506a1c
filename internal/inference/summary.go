package inference

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"cosmicstring-pta/internal/sampler"
)

// ParamSummary describes the marginal posterior of one parameter.
type ParamSummary struct {
	Mean   float64
	StdDev float64
	StdErr float64
	Q025   float64
	Median float64
	Q975   float64
}

// Summary holds marginals of log10 Gμ and log10 P.
type Summary struct {
	N      int
	LogGmu ParamSummary
	LogP   ParamSummary
}

// Summarize computes marginal statistics of the retained samples.
func Summarize(samples []sampler.Sample) Summary {
	s := Summary{N: len(samples)}
	if len(samples) == 0 {
		return s
	}

	lg := make([]float64, len(samples))
	lp := make([]float64, len(samples))
	for i, x := range samples {
		lg[i] = math.Log10(x.Gmu)
		lp[i] = x.LogP
	}
	s.LogGmu = summarize(lg)
	s.LogP = summarize(lp)
	return s
}

func summarize(xs []float64) ParamSummary {
	var rs sampler.RunningStats
	for _, x := range xs {
		rs.Add(x)
	}
	stderr := rs.StdErr()
	if math.IsInf(stderr, 1) {
		stderr = 0
	}

	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return ParamSummary{
		Mean:   rs.Mean(),
		StdDev: rs.StdDev(),
		StdErr: stderr,
		Q025:   stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q975:   stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}
}
