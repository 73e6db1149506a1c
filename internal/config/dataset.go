package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cosmicstring-pta/internal/likelihood"
	"cosmicstring-pta/internal/units"
)

// Dataset kinds.
const (
	KindPTA  = "pta"
	KindLISA = "lisa"
)

// YAMLDataset is the on-disk form of a PTA limit or LISA forecast.
type YAMLDataset struct {
	Name          string      `yaml:"name"`
	Kind          string      `yaml:"kind"`
	Quantity      string      `yaml:"quantity"`
	FrequencyUnit string      `yaml:"frequency_unit"`
	Points        []YAMLPoint `yaml:"points"`
}

type YAMLPoint struct {
	Frequency float64 `yaml:"frequency"`
	Value     float64 `yaml:"value"`
	Error     float64 `yaml:"error"`
}

// Dataset is a loaded dataset; exactly one of PTA and LISA is set.
type Dataset struct {
	PTA  *likelihood.PTADataset
	LISA *likelihood.LISADataset
}

var frequencyScale = map[string]float64{
	"":    1,
	"hz":  1,
	"mhz": 1e-3,
	"uhz": 1e-6,
	"nhz": 1e-9,
}

// LoadDataset reads a YAML dataset and normalises it to Hz and Ω_gw.
func LoadDataset(path string) (Dataset, error) {
	const op = "config.load_dataset"

	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}

	var dto YAMLDataset
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Dataset{}, &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrInvalid, err)}
	}
	return MapDataset(path, dto)
}

// MapDataset converts a decoded YAMLDataset.
func MapDataset(path string, dto YAMLDataset) (Dataset, error) {
	const op = "config.map_dataset"

	if len(dto.Points) == 0 {
		return Dataset{}, invalid(op, path, "dataset %q has no points", dto.Name)
	}
	q, err := units.ParseQuantity(dto.Quantity)
	if err != nil {
		return Dataset{}, invalid(op, path, "%v", err)
	}
	scale, ok := frequencyScale[strings.ToLower(strings.TrimSpace(dto.FrequencyUnit))]
	if !ok {
		return Dataset{}, invalid(op, path, "unknown frequency_unit %q", dto.FrequencyUnit)
	}

	n := len(dto.Points)
	freqs := make([]float64, n)
	values := make([]float64, n)
	sigmas := make([]float64, n)
	for i, p := range dto.Points {
		f := p.Frequency * scale
		if !(f > 0) {
			return Dataset{}, invalid(op, path, "point %d: frequency must be > 0, got %g", i, p.Frequency)
		}
		w, s, err := units.ToOmegaGW(q, f, p.Value, p.Error)
		if err != nil {
			return Dataset{}, invalid(op, path, "point %d: %v", i, err)
		}
		freqs[i], values[i], sigmas[i] = f, w, s
	}

	name := dto.Name
	if name == "" {
		name = path
	}
	switch strings.ToLower(dto.Kind) {
	case KindPTA, "":
		return Dataset{PTA: &likelihood.PTADataset{
			Name: name, Frequencies: freqs, UpperLimits: values, Errors: sigmas,
		}}, nil
	case KindLISA:
		return Dataset{LISA: &likelihood.LISADataset{
			Name: name, Frequencies: freqs, Omega: values, Sigma: sigmas,
		}}, nil
	default:
		return Dataset{}, invalid(op, path, "unknown kind %q", dto.Kind)
	}
}
