// Package store persists inference reports in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cosmicstring-pta/internal/inference"
)

const schema = `
CREATE TABLE IF NOT EXISTS inference_runs (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,

	-- Inputs
	pta_name TEXT,
	pta_bins INTEGER,
	use_lisa BOOLEAN,
	param_nk INTEGER,
	param_alpha REAL,
	param_beta REAL,
	param_z_max REAL,
	param_nz INTEGER,
	param_adaptive_tol REAL,
	n_walkers INTEGER,
	n_steps INTEGER,
	burn_in REAL,
	seed INTEGER,

	-- Results
	acceptance_rate REAL,
	steps_completed INTEGER,
	cancelled BOOLEAN,
	sample_count INTEGER,
	log_gmu_mean REAL,
	log_gmu_stddev REAL,
	log_gmu_q025 REAL,
	log_gmu_q975 REAL,
	log_p_mean REAL,
	log_p_stddev REAL,
	log_p_q025 REAL,
	log_p_q975 REAL,
	level68 REAL,
	level95 REAL,
	elapsed_ms INTEGER,

	-- Meta
	ablated_param TEXT,
	ablated_value REAL
);

CREATE TABLE IF NOT EXISTS posterior_samples (
	run_id TEXT NOT NULL REFERENCES inference_runs(id),
	idx INTEGER NOT NULL,
	gmu REAL NOT NULL,
	log_p REAL NOT NULL,
	log_prob REAL,
	PRIMARY KEY (run_id, idx)
);
`

// Store is a SQLite results database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ablation tags a report produced by a sweep.
type Ablation struct {
	Param string
	Value float64
}

// SaveReport stores the run and its samples in one transaction. withSamples
// controls whether the individual draws are written.
func (s *Store) SaveReport(ctx context.Context, rep *inference.Report, ab Ablation, withSamples bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	req := rep.Request
	phys := req.Physics.WithDefaults()
	sum := rep.Summary
	insert := `
	INSERT INTO inference_runs (
		id, created_at, pta_name, pta_bins, use_lisa,
		param_nk, param_alpha, param_beta, param_z_max, param_nz, param_adaptive_tol,
		n_walkers, n_steps, burn_in, seed,
		acceptance_rate, steps_completed, cancelled, sample_count,
		log_gmu_mean, log_gmu_stddev, log_gmu_q025, log_gmu_q975,
		log_p_mean, log_p_stddev, log_p_q025, log_p_q975,
		level68, level95, elapsed_ms, ablated_param, ablated_value
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, insert,
		rep.ID.String(), rep.CreatedAt, req.PTA.Name, req.PTA.Len(), req.UseLISA,
		phys.Nk, phys.Alpha, phys.BetaValue(), phys.ZMax, phys.NZ, phys.AdaptiveTol,
		req.Sampler.Walkers, req.Sampler.Steps, req.Sampler.BurnIn, req.Sampler.Seed,
		rep.Chain.AcceptanceRate, rep.Chain.StepsCompleted, rep.Chain.Cancelled, sum.N,
		sum.LogGmu.Mean, sum.LogGmu.StdDev, sum.LogGmu.Q025, sum.LogGmu.Q975,
		sum.LogP.Mean, sum.LogP.StdDev, sum.LogP.Q025, sum.LogP.Q975,
		rep.Levels.Level68, rep.Levels.Level95, rep.Elapsed.Milliseconds(),
		ab.Param, ab.Value,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if withSamples {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO posterior_samples (run_id, idx, gmu, log_p, log_prob) VALUES (?, ?, ?, ?, ?);`)
		if err != nil {
			return fmt.Errorf("prepare samples: %w", err)
		}
		defer stmt.Close()

		id := rep.ID.String()
		for i, smp := range rep.Chain.Samples {
			if _, err := stmt.ExecContext(ctx, id, i, smp.Gmu, smp.LogP, finiteOrNil(rep.Chain.LogProbs[i])); err != nil {
				return fmt.Errorf("insert sample %d: %w", i, err)
			}
		}
	}

	return tx.Commit()
}

// RunRow is a stored run summary.
type RunRow struct {
	ID             string
	CreatedAt      time.Time
	PTAName        string
	Walkers        int
	Steps          int
	Seed           int64
	AcceptanceRate float64
	SampleCount    int
	LogGmuMean     float64
	LogGmuStdDev   float64
	LogPMean       float64
	LogPStdDev     float64
	Level68        float64
	Level95        float64
	AblatedParam   string
	AblatedValue   float64
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, created_at, pta_name, n_walkers, n_steps, seed, acceptance_rate, sample_count,
		log_gmu_mean, log_gmu_stddev, log_p_mean, log_p_stddev, level68, level95,
		ablated_param, ablated_value
	FROM inference_runs
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.PTAName, &r.Walkers, &r.Steps, &r.Seed,
			&r.AcceptanceRate, &r.SampleCount, &r.LogGmuMean, &r.LogGmuStdDev,
			&r.LogPMean, &r.LogPStdDev, &r.Level68, &r.Level95,
			&r.AblatedParam, &r.AblatedValue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountSamples returns how many draws are stored for runID.
func (s *Store) CountSamples(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posterior_samples WHERE run_id = ?;`, runID).Scan(&n)
	return n, err
}

// SQLite has no representation for -Inf.
func finiteOrNil(x float64) any {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return x
}
