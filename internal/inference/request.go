// Package inference wires the spectrum model, likelihood, ensemble sampler and
// density estimator into a single posterior run, and runs grids of those in
// parallel.
package inference

import (
	"errors"
	"fmt"

	"cosmicstring-pta/internal/likelihood"
	"cosmicstring-pta/internal/spectrum"
)

var ErrInvalidRequest = errors.New("invalid inference request")

// SamplerConfig is the host-facing sampler configuration.
type SamplerConfig struct {
	Walkers       int     `yaml:"walkers"`
	Steps         int     `yaml:"steps"`
	BurnIn        float64 `yaml:"burn_in"`
	ProgressEvery int     `yaml:"progress_every"`
	Seed          int64   `yaml:"seed"`
}

type KDEConfig struct {
	GridSize  int     `yaml:"grid_size"`
	Bandwidth float64 `yaml:"bandwidth"`
	LevelA    float64 `yaml:"level_a"`
	LevelB    float64 `yaml:"level_b"`
}

// Request describes one inference run.
type Request struct {
	PTA     *likelihood.PTADataset
	LISA    *likelihood.LISADataset
	UseLISA bool
	Physics spectrum.Options
	Sampler SamplerConfig
	KDE     KDEConfig
}

func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Walkers:       16,
		Steps:         200,
		BurnIn:        0.3,
		ProgressEvery: 10,
		Seed:          42,
	}
}

func DefaultKDEConfig() KDEConfig {
	return KDEConfig{GridSize: 60, Bandwidth: 0.15, LevelA: 0.68, LevelB: 0.95}
}

// Validate checks everything that would otherwise fail mid-run.
func (r *Request) Validate() error {
	if err := r.PTA.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.UseLISA {
		if err := r.LISA.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	if err := r.Physics.WithDefaults().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.Sampler.Walkers < 2 {
		return fmt.Errorf("%w: need at least 2 walkers, got %d", ErrInvalidRequest, r.Sampler.Walkers)
	}
	if r.Sampler.Steps < 1 {
		return fmt.Errorf("%w: need at least 1 step, got %d", ErrInvalidRequest, r.Sampler.Steps)
	}
	if !(r.Sampler.BurnIn >= 0 && r.Sampler.BurnIn < 1) {
		return fmt.Errorf("%w: burn-in must be in [0,1), got %g", ErrInvalidRequest, r.Sampler.BurnIn)
	}
	if r.KDE.GridSize < 1 || !(r.KDE.Bandwidth > 0) {
		return fmt.Errorf("%w: kde grid_size=%d bandwidth=%g", ErrInvalidRequest, r.KDE.GridSize, r.KDE.Bandwidth)
	}
	if !(r.KDE.LevelA > 0 && r.KDE.LevelA <= 1 && r.KDE.LevelB > 0 && r.KDE.LevelB <= 1) {
		return fmt.Errorf("%w: credible levels must be in (0,1], got %g/%g", ErrInvalidRequest, r.KDE.LevelA, r.KDE.LevelB)
	}
	return nil
}
