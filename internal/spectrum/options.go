package spectrum

import (
	"errors"
	"fmt"
)

var ErrInvalidOptions = errors.New("invalid physics options")

// Options configures a single spectrum evaluation. Zero fields (nil for Beta)
// take the value from DefaultOptions.
type Options struct {
	Nk    int     `yaml:"nk"`    // harmonic modes
	Alpha float64 `yaml:"alpha"` // loop-size scaling
	// Beta is the tension exponent of the loop density. 0 is a valid
	// exponent, so unset is nil.
	Beta *float64 `yaml:"beta"`
	ZMax float64  `yaml:"z_max"`
	NZ   int      `yaml:"nz"`
	// AdaptiveTol is the integrator tolerance. By default it is relative: it
	// is multiplied by the magnitude of the coarse whole-interval Simpson
	// estimate before refining. With AbsoluteTol set it is used as the local
	// absolute tolerance as is.
	AdaptiveTol float64 `yaml:"adaptive_tol"`
	AbsoluteTol bool    `yaml:"absolute_tol"`
	MaxDepth    int     `yaml:"max_depth"`
}

// Float64 returns a pointer to v, for setting Beta.
func Float64(v float64) *float64 { return &v }

// BetaValue is Beta, or the default exponent when unset.
func (o Options) BetaValue() float64 {
	if o.Beta == nil {
		return *DefaultOptions().Beta
	}
	return *o.Beta
}

func DefaultOptions() Options {
	return Options{
		Nk:          50,
		Alpha:       0.1,
		Beta:        Float64(1.0),
		ZMax:        1000,
		NZ:          1000,
		AdaptiveTol: 1e-4,
		MaxDepth:    DefaultMaxDepth,
	}
}

// WithDefaults returns a copy of o with every zero field replaced by its default.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Nk == 0 {
		o.Nk = d.Nk
	}
	if o.Alpha == 0 {
		o.Alpha = d.Alpha
	}
	if o.Beta == nil {
		o.Beta = d.Beta
	}
	if o.ZMax == 0 {
		o.ZMax = d.ZMax
	}
	if o.NZ == 0 {
		o.NZ = d.NZ
	}
	if o.AdaptiveTol == 0 {
		o.AdaptiveTol = d.AdaptiveTol
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = d.MaxDepth
	}
	return o
}

// Validate reports options that would make the model degenerate.
func (o Options) Validate() error {
	switch {
	case o.Nk < 1:
		return fmt.Errorf("%w: nk must be >= 1, got %d", ErrInvalidOptions, o.Nk)
	case o.Alpha <= 0:
		return fmt.Errorf("%w: alpha must be > 0, got %g", ErrInvalidOptions, o.Alpha)
	case o.ZMax <= 0:
		return fmt.Errorf("%w: z_max must be > 0, got %g", ErrInvalidOptions, o.ZMax)
	case o.NZ < 2:
		return fmt.Errorf("%w: nz must be >= 2, got %d", ErrInvalidOptions, o.NZ)
	case o.AdaptiveTol <= 0:
		return fmt.Errorf("%w: adaptive_tol must be > 0, got %g", ErrInvalidOptions, o.AdaptiveTol)
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalidOptions, o.MaxDepth)
	}
	return nil
}
