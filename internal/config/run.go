// Package config loads YAML run files and observation datasets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cosmicstring-pta/internal/inference"
	"cosmicstring-pta/internal/spectrum"
)

// RunConfig is the parsed run file. Dataset paths are resolved relative to
// the file that names them.
type RunConfig struct {
	PTA     string                  `yaml:"pta"`
	LISA    string                  `yaml:"lisa"`
	UseLISA bool                    `yaml:"use_lisa"`
	Physics spectrum.Options        `yaml:"physics"`
	Sampler inference.SamplerConfig `yaml:"sampler"`
	KDE     inference.KDEConfig     `yaml:"kde"`
	Store   StoreConfig             `yaml:"store"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// DefaultRunConfig provides defaults for every key a run file may omit.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Physics: spectrum.DefaultOptions(),
		Sampler: inference.DefaultSamplerConfig(),
		KDE:     inference.DefaultKDEConfig(),
		Store:   StoreConfig{Path: "sgwb_results.db"},
	}
}

// Load reads a run file over DefaultRunConfig.
func Load(path string) (RunConfig, error) {
	const op = "config.load"

	b, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}

	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RunConfig{}, &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %w", ErrInvalid, err)}
	}
	if cfg.PTA == "" {
		return RunConfig{}, invalid(op, path, "pta dataset path is required")
	}
	if cfg.UseLISA && cfg.LISA == "" {
		return RunConfig{}, invalid(op, path, "use_lisa is set but no lisa dataset is given")
	}

	dir := filepath.Dir(path)
	cfg.PTA = resolve(dir, cfg.PTA)
	cfg.LISA = resolve(dir, cfg.LISA)
	cfg.Store.Path = resolve(dir, cfg.Store.Path)
	cfg.Physics = cfg.Physics.WithDefaults()
	return cfg, nil
}

// Request loads the referenced datasets and builds an inference request.
func (c RunConfig) Request() (inference.Request, error) {
	const op = "config.request"

	pta, err := LoadDataset(c.PTA)
	if err != nil {
		return inference.Request{}, err
	}
	if pta.PTA == nil {
		return inference.Request{}, invalid(op, c.PTA, "pta points to a %s dataset", KindLISA)
	}

	req := inference.Request{
		PTA:     pta.PTA,
		UseLISA: c.UseLISA,
		Physics: c.Physics,
		Sampler: c.Sampler,
		KDE:     c.KDE,
	}
	if c.LISA != "" {
		lisa, err := LoadDataset(c.LISA)
		if err != nil {
			return inference.Request{}, err
		}
		if lisa.LISA == nil {
			return inference.Request{}, invalid(op, c.LISA, "lisa points to a %s dataset", KindPTA)
		}
		req.LISA = lisa.LISA
	}
	return req, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || p == ":memory:" {
		return p
	}
	return filepath.Join(dir, p)
}
