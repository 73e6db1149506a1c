package inference

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"cosmicstring-pta/internal/spectrum"
)

// AblationConfig is the grid of values tried for one parameter.
type AblationConfig struct {
	ParamName string
	Values    []float64
}

// AblationParams lists the parameters GetAblationConfig knows.
var AblationParams = []string{"alpha", "beta", "nk", "zmax", "seed"}

func GetAblationConfig(paramName string) AblationConfig {
	switch paramName {
	case "alpha":
		// 0.02 to 0.5, 8 points
		return AblationConfig{ParamName: paramName, Values: linspace(0.02, 0.5, 8)}

	case "beta":
		// 0.5 to 1.5, 6 points
		return AblationConfig{ParamName: paramName, Values: linspace(0.5, 1.5, 6)}

	case "nk":
		return AblationConfig{ParamName: paramName, Values: []float64{5, 10, 20, 50, 100}}

	case "zmax":
		// 100 to 2000, 6 points
		return AblationConfig{ParamName: paramName, Values: linspace(100, 2000, 6)}

	case "seed":
		// Independent chains, for checking run-to-run scatter.
		values := make([]float64, 8)
		for i := range values {
			values[i] = float64(i + 1)
		}
		return AblationConfig{ParamName: paramName, Values: values}

	default:
		return AblationConfig{}
	}
}

// ApplyAblation returns a copy of req with paramName set to value.
func ApplyAblation(req Request, paramName string, value float64) Request {
	switch paramName {
	case "alpha":
		req.Physics.Alpha = value
	case "beta":
		req.Physics.Beta = spectrum.Float64(value)
	case "nk":
		req.Physics.Nk = int(math.Round(value))
		if req.Physics.Nk < 1 {
			req.Physics.Nk = 1
		}
	case "zmax":
		req.Physics.ZMax = value
	case "seed":
		req.Sampler.Seed = int64(math.Round(value))
	}
	return req
}

// SweepPoint is one finished grid point.
type SweepPoint struct {
	Index  int
	Param  string
	Value  float64
	Report *Report
}

// Sweep runs base once per grid value of paramName, at most workers runs at
// a time, and calls emit in grid order as points complete. Every run uses its
// own Runner and so its own cosmology cache.
//
// The first run or emit error cancels the remaining runs and is returned.
// Points whose chain was cut short by cancellation are never emitted, and
// cancelling ctx makes Sweep return its error.
func Sweep(ctx context.Context, logger *zap.Logger, base Request, paramName string, workers int, emit func(SweepPoint) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := GetAblationConfig(paramName)
	if len(cfg.Values) == 0 {
		return fmt.Errorf("%w: unknown ablation parameter %q (options: %v)", ErrInvalidRequest, paramName, AblationParams)
	}
	if workers < 1 {
		workers = 1
	}

	reqs := make([]Request, len(cfg.Values))
	for i, v := range cfg.Values {
		reqs[i] = ApplyAblation(base, paramName, v)
		if err := reqs[i].Validate(); err != nil {
			return fmt.Errorf("%s=%g: %w", paramName, v, err)
		}
	}

	logger.Info("sweep.start",
		zap.String("param", paramName),
		zap.Int("points", len(reqs)),
		zap.Int("workers", workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan SweepPoint, len(reqs))
	waitErr := make(chan error, 1)
	go func() {
		for i := range reqs {
			g.Go(func() error {
				v := cfg.Values[i]
				logger.Debug("sweep.point.start", zap.String("param", paramName), zap.Float64("value", v))
				rep, err := NewRunner(logger).Run(gctx, reqs[i], nil)
				if err != nil {
					return fmt.Errorf("%s=%g: %w", paramName, v, err)
				}
				if rep.Chain.Cancelled {
					logger.Warn("sweep.point.cancelled", zap.String("param", paramName), zap.Float64("value", v))
					return fmt.Errorf("%s=%g: %w", paramName, v, context.Cause(gctx))
				}
				results <- SweepPoint{Index: i, Param: paramName, Value: v, Report: rep}
				return nil
			})
		}
		waitErr <- g.Wait()
		close(results)
	}()

	// Emit in grid order regardless of completion order.
	buffer := make(map[int]SweepPoint)
	next := 0
	var emitErr error
	for p := range results {
		if emitErr != nil {
			continue
		}
		buffer[p.Index] = p
		for {
			ready, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)
			next++
			if err := emit(ready); err != nil {
				emitErr = err
				cancel()
				break
			}
		}
	}

	if err := <-waitErr; err != nil && emitErr == nil {
		return err
	}
	if emitErr == nil {
		logger.Info("sweep.done", zap.String("param", paramName), zap.Int("points", next))
	}
	return emitErr
}

func linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}
