package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cosmicstring-pta/internal/cosmology"
	"cosmicstring-pta/internal/kde"
	"cosmicstring-pta/internal/likelihood"
	"cosmicstring-pta/internal/sampler"
	"cosmicstring-pta/internal/spectrum"
)

// Report is the outcome of one run.
type Report struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Request   Request
	Chain     *sampler.Result
	Density   *kde.Grid
	Levels    kde.Levels
	Summary   Summary
	Elapsed   time.Duration
}

// Runner executes requests. Each Runner owns its cosmology cache, so Runners
// used from different goroutines never share the table slot.
type Runner struct {
	logger *zap.Logger
	cache  *cosmology.Cache
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, cache: cosmology.NewCache()}
}

// Run validates req, samples the posterior and post-processes the chain.
// onProgress may be nil. A cancelled ctx yields a report built from the
// partial chain with Chain.Cancelled set.
func (r *Runner) Run(ctx context.Context, req Request, onProgress func(sampler.Progress)) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	id := uuid.New()
	log := r.logger.With(zap.String("run_id", id.String()))

	engine := likelihood.NewEngine(spectrum.NewModel(r.cache), req.Physics)
	target := engine.Target(req.PTA, likelihood.PosteriorOptions{LISA: req.LISA, UseLISA: req.UseLISA})

	log.Info("inference.start",
		zap.String("pta", req.PTA.Name),
		zap.Int("bins", req.PTA.Len()),
		zap.Bool("use_lisa", req.UseLISA),
		zap.Int("walkers", req.Sampler.Walkers),
		zap.Int("steps", req.Sampler.Steps),
		zap.Float64("burn_in", req.Sampler.BurnIn),
		zap.Int64("seed", req.Sampler.Seed),
	)

	chain, err := sampler.Run(ctx, target, sampler.Options{
		NWalkers:      req.Sampler.Walkers,
		NSteps:        req.Sampler.Steps,
		BurnIn:        req.Sampler.BurnIn,
		ProgressEvery: req.Sampler.ProgressEvery,
		Source:        sampler.NewFastRNG(req.Sampler.Seed),
		OnProgress: func(p sampler.Progress) {
			log.Debug("inference.progress",
				zap.Int("step", p.Step),
				zap.Int("total", p.TotalSteps),
				zap.Float64("acceptance", p.AcceptanceRate))
			if onProgress != nil {
				onProgress(p)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	if chain.Cancelled {
		log.Warn("inference.cancelled", zap.Int("steps_completed", chain.StepsCompleted))
	}

	rep := &Report{
		ID:        id,
		CreatedAt: start.UTC(),
		Request:   req,
		Chain:     chain,
		Summary:   Summarize(chain.Samples),
	}

	if len(chain.Samples) > 0 {
		grid, err := kde.Estimate(chain.Samples, req.KDE.GridSize, req.KDE.Bandwidth)
		if err != nil {
			return nil, fmt.Errorf("density estimate: %w", err)
		}
		rep.Density = grid
		rep.Levels = kde.CredibleLevels(grid.Density, req.KDE.LevelA, req.KDE.LevelB)
	}
	rep.Elapsed = time.Since(start)

	log.Info("inference.done",
		zap.Int("samples", len(chain.Samples)),
		zap.Float64("acceptance", chain.AcceptanceRate),
		zap.Float64("log_gmu_mean", rep.Summary.LogGmu.Mean),
		zap.Float64("log_p_mean", rep.Summary.LogP.Mean),
		zap.Float64("level68", rep.Levels.Level68),
		zap.Float64("level95", rep.Levels.Level95),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}
