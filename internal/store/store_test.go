package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmicstring-pta/internal/inference"
	"cosmicstring-pta/internal/kde"
	"cosmicstring-pta/internal/likelihood"
	"cosmicstring-pta/internal/sampler"
	"cosmicstring-pta/internal/spectrum"
)

func fakeReport(created time.Time, seed int64) *inference.Report {
	return &inference.Report{
		ID:        uuid.New(),
		CreatedAt: created,
		Request: inference.Request{
			PTA: &likelihood.PTADataset{
				Name:        "fake",
				Frequencies: []float64{1e-8, 2e-8},
				UpperLimits: []float64{1e-9, 1e-9},
				Errors:      []float64{1e-10, 1e-10},
			},
			Physics: spectrum.DefaultOptions(),
			Sampler: inference.SamplerConfig{Walkers: 4, Steps: 10, BurnIn: 0.5, ProgressEvery: 1, Seed: seed},
			KDE:     inference.DefaultKDEConfig(),
		},
		Chain: &sampler.Result{
			Samples: []sampler.Sample{
				{Gmu: 1e-11, LogP: -2},
				{Gmu: 2e-11, LogP: -1.5},
				{Gmu: 3e-11, LogP: -1},
			},
			LogProbs:       []float64{-1.2, math.Inf(-1), -0.3},
			AcceptanceRate: 0.4,
			NWalkers:       4,
			NSteps:         10,
			BurnIn:         0.5,
			StepsCompleted: 10,
		},
		Levels:  kde.Levels{Level68: 0.5, Level95: 0.1},
		Summary: inference.Summary{N: 3, LogGmu: inference.ParamSummary{Mean: -10.8, StdDev: 0.2}},
		Elapsed: 1500 * time.Millisecond,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer s.Close()

	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	older := fakeReport(t0, 1)
	newer := fakeReport(t0.Add(time.Hour), 2)

	require.NoError(t, s.SaveReport(ctx, older, Ablation{}, true))
	require.NoError(t, s.SaveReport(ctx, newer, Ablation{Param: "alpha", Value: 0.2}, false))

	rows, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, newer.ID.String(), rows[0].ID)
	assert.Equal(t, "alpha", rows[0].AblatedParam)
	assert.Equal(t, 0.2, rows[0].AblatedValue)
	assert.Equal(t, int64(2), rows[0].Seed)

	r := rows[1]
	assert.Equal(t, older.ID.String(), r.ID)
	assert.True(t, t0.Equal(r.CreatedAt))
	assert.Equal(t, "fake", r.PTAName)
	assert.Equal(t, 4, r.Walkers)
	assert.Equal(t, 10, r.Steps)
	assert.Equal(t, 3, r.SampleCount)
	assert.Equal(t, 0.4, r.AcceptanceRate)
	assert.Equal(t, -10.8, r.LogGmuMean)
	assert.Equal(t, 0.5, r.Level68)
	assert.Empty(t, r.AblatedParam)

	n, err := s.CountSamples(ctx, older.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.CountSamples(ctx, newer.ID.String())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ListLimit(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer s.Close()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, s.SaveReport(ctx, fakeReport(t0.Add(time.Duration(i)*time.Minute), int64(i)), Ablation{}, false))
	}

	rows, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(4), rows[0].Seed)
	assert.Equal(t, int64(3), rows[1].Seed)
}

func TestStore_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer s.Close()

	rep := fakeReport(time.Now().UTC(), 1)
	require.NoError(t, s.SaveReport(ctx, rep, Ablation{}, true))
	assert.Error(t, s.SaveReport(ctx, rep, Ablation{}, true))

	n, err := s.CountSamples(ctx, rep.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFiniteOrNil(t *testing.T) {
	assert.Nil(t, finiteOrNil(math.Inf(-1)))
	assert.Nil(t, finiteOrNil(math.NaN()))
	assert.Equal(t, -1.5, finiteOrNil(-1.5))
}
