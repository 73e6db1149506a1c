package likelihood

import (
	"errors"
	"fmt"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// PTADataset holds per-frequency Ω_gw upper limits and their 1σ errors.
type PTADataset struct {
	Name        string
	Frequencies []float64 // Hz
	UpperLimits []float64
	Errors      []float64
}

func (d *PTADataset) Len() int { return len(d.Frequencies) }

// Validate checks the arrays are aligned, the frequencies are positive and
// every error is positive. A single bin with a non-positive error makes the
// likelihood -Inf everywhere.
func (d *PTADataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: missing PTA dataset", ErrInvalidDataset)
	}
	if err := validateArrays(d.Name, d.Frequencies, d.UpperLimits, d.Errors); err != nil {
		return err
	}
	for i, s := range d.Errors {
		if !(s > 0) {
			return fmt.Errorf("%w: %s: errors[%d]=%g must be > 0", ErrInvalidDataset, d.Name, i, s)
		}
	}
	return nil
}

// LISADataset holds a forecast Ω_gw curve and its 1σ sensitivity.
type LISADataset struct {
	Name        string
	Frequencies []float64 // Hz
	Omega       []float64
	Sigma       []float64
}

func (d *LISADataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Frequencies)
}

// Validate checks alignment and frequencies. Bins with sigma <= 0 are allowed;
// the likelihood skips them.
func (d *LISADataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: missing LISA dataset", ErrInvalidDataset)
	}
	return validateArrays(d.Name, d.Frequencies, d.Omega, d.Sigma)
}

func validateArrays(name string, freqs, values, sigmas []float64) error {
	if len(freqs) == 0 {
		return fmt.Errorf("%w: %s: no frequency bins", ErrInvalidDataset, name)
	}
	if len(values) != len(freqs) || len(sigmas) != len(freqs) {
		return fmt.Errorf("%w: %s: array lengths differ (frequencies=%d values=%d errors=%d)",
			ErrInvalidDataset, name, len(freqs), len(values), len(sigmas))
	}
	for i, f := range freqs {
		if !(f > 0) {
			return fmt.Errorf("%w: %s: frequency[%d]=%g must be > 0", ErrInvalidDataset, name, i, f)
		}
	}
	return nil
}
