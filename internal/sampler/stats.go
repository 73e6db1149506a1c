package sampler

import "math"

// RunningStats tracks a running mean and variance (Welford).
type RunningStats struct {
	n    int
	mean float64
	m2   float64 // sum of squared differences from the mean
}

func (s *RunningStats) Add(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *RunningStats) N() int { return s.n }

func (s *RunningStats) Mean() float64 {
	return s.mean
}

func (s *RunningStats) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *RunningStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *RunningStats) StdErr() float64 {
	if s.n < 2 {
		return math.Inf(1)
	}
	return s.StdDev() / math.Sqrt(float64(s.n))
}
