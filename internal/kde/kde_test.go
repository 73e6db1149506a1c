package kde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmicstring-pta/internal/sampler"
)

func syntheticSamples(n int, seed int64) []sampler.Sample {
	rng := sampler.NewFastRNG(seed)
	out := make([]sampler.Sample, n)
	for i := range out {
		// Roughly centred on log10 Gμ = -11, log10 P = -2.
		lg := -11 + (rng.Float64()+rng.Float64()+rng.Float64()-1.5)*0.5
		lp := -2 + (rng.Float64()+rng.Float64()+rng.Float64()-1.5)*0.4
		out[i] = sampler.Sample{Gmu: math.Pow(10, lg), LogP: lp}
	}
	return out
}

func TestEstimate_BoundsAndShape(t *testing.T) {
	samples := []sampler.Sample{
		{Gmu: 1e-12, LogP: -3},
		{Gmu: 1e-10, LogP: -1},
		{Gmu: 1e-11, LogP: -2},
	}
	const h = 0.25

	g, err := Estimate(samples, 5, h)
	require.NoError(t, err)

	assert.Equal(t, math.Log10(1e-12)-h, g.LogGmuMin)
	assert.Equal(t, math.Log10(1e-10)+h, g.LogGmuMax)
	assert.Equal(t, -3-h, g.LogPMin)
	assert.Equal(t, -1+h, g.LogPMax)
	assert.Equal(t, 5, g.GridSize)
	assert.Equal(t, h, g.Bandwidth)

	require.Len(t, g.Density, 5)
	require.Len(t, g.Cells, 25)
	for i, row := range g.Density {
		require.Len(t, row, 5)
		for j, d := range row {
			assert.GreaterOrEqual(t, d, 0.0)
			c := g.Cells[i*5+j]
			assert.Equal(t, d, c.Density, "flat list must be row-major")
		}
	}

	// Rows share LogP, columns share LogGmu.
	assert.Equal(t, g.Cells[0].LogP, g.Cells[4].LogP)
	assert.Equal(t, g.Cells[0].LogGmu, g.Cells[5].LogGmu)
	assert.InDelta(t, g.LogGmuMin, g.Cells[0].LogGmu, 1e-12)
	assert.InDelta(t, g.LogPMin, g.Cells[0].LogP, 1e-12)
	assert.InDelta(t, g.LogGmuMax, g.Cells[24].LogGmu, 1e-12)
	assert.InDelta(t, g.LogPMax, g.Cells[24].LogP, 1e-12)
}

func TestEstimate_SinglePointDensity(t *testing.T) {
	const h = 0.5
	g, err := Estimate([]sampler.Sample{{Gmu: 1e-11, LogP: -2}}, 3, h)
	require.NoError(t, err)

	// The centre cell sits on the sample.
	assert.InDelta(t, 1/(2*math.Pi*h*h), g.Density[1][1], 1e-12)
	assert.Less(t, g.Density[0][0], g.Density[1][1])
}

func TestEstimate_IntegratesToAboutOne(t *testing.T) {
	samples := syntheticSamples(300, 9)
	const n = 80
	g, err := Estimate(samples, n, 0.1)
	require.NoError(t, err)

	dx := (g.LogGmuMax - g.LogGmuMin) / (n - 1)
	dy := (g.LogPMax - g.LogPMin) / (n - 1)
	mass := 0.0
	for _, c := range g.Cells {
		mass += c.Density * dx * dy
	}
	// The grid clips one bandwidth of tail on each side.
	assert.InDelta(t, 0.95, mass, 0.1)
}

func TestEstimate_GridSizeOne(t *testing.T) {
	g, err := Estimate(syntheticSamples(10, 1), 1, 0.2)
	require.NoError(t, err)
	require.Len(t, g.Cells, 1)
	assert.Equal(t, g.LogGmuMin, g.Cells[0].LogGmu)
	assert.Equal(t, g.LogPMin, g.Cells[0].LogP)
}

func TestEstimate_InvalidInput(t *testing.T) {
	ok := syntheticSamples(5, 1)

	_, err := Estimate(nil, 10, 0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Estimate(ok, 0, 0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Estimate(ok, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Estimate([]sampler.Sample{{Gmu: -1, LogP: -1}}, 10, 0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCredibleLevels_Ordering(t *testing.T) {
	g, err := Estimate(syntheticSamples(200, 3), 40, 0.1)
	require.NoError(t, err)

	lv := DefaultCredibleLevels(g.Density)
	assert.Greater(t, lv.Level68, 0.0)
	assert.GreaterOrEqual(t, lv.Level68, lv.Level95)
}

func TestCredibleLevels_HandComputed(t *testing.T) {
	// Sorted descending: 4 3 2 1, cumulative fractions 0.4 0.7 0.9 1.0.
	density := [][]float64{{1, 4}, {3, 2}}
	lv := CredibleLevels(density, 0.68, 0.95)
	assert.Equal(t, 3.0, lv.Level68)
	assert.Equal(t, 1.0, lv.Level95)

	lv = CredibleLevels(density, 0.4, 0.9)
	assert.Equal(t, 4.0, lv.Level68, "reaching the level exactly counts")
	assert.Equal(t, 2.0, lv.Level95)
}

func TestCredibleLevels_Degenerate(t *testing.T) {
	assert.Equal(t, Levels{}, DefaultCredibleLevels(nil))
	assert.Equal(t, Levels{}, DefaultCredibleLevels([][]float64{}))
	assert.Equal(t, Levels{}, DefaultCredibleLevels([][]float64{{0, 0}, {0, 0}}))
}

func BenchmarkEstimate(b *testing.B) {
	samples := syntheticSamples(2000, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Estimate(samples, 50, 0.1)
	}
}
