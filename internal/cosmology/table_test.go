package cosmology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_GridInvariants(t *testing.T) {
	tab := Build(100, 51)

	require.Len(t, tab.Z, 51)
	require.Len(t, tab.Age, 51)
	require.Len(t, tab.DtDz, 51)
	require.Len(t, tab.Hubble, 51)

	assert.Equal(t, 0.0, tab.Z[0])
	assert.Equal(t, 100.0, tab.Z[50])
	for i := 1; i < len(tab.Z); i++ {
		assert.Greater(t, tab.Z[i], tab.Z[i-1], "z must increase at %d", i)
		assert.Less(t, tab.Age[i], tab.Age[i-1], "age must decrease at %d", i)
	}
}

func TestBuild_TodayValues(t *testing.T) {
	tab := Build(10, 11)

	assert.InDelta(t, 2.0/3.0/H0, tab.Age[0], 1e-6*tab.Age[0])
	// E(0) = sqrt(Ωm + ΩΛ) = 1 for a flat universe.
	assert.InDelta(t, H0, tab.Hubble[0], 1e-12*H0)
	assert.InDelta(t, 1/H0, tab.DtDz[0], 1e-9/H0)
}

func TestTable_AccessorsClamp(t *testing.T) {
	tab := Build(10, 11)

	assert.Equal(t, tab.Age[0], tab.AgeAt(-1))
	assert.Equal(t, tab.Age[10], tab.AgeAt(20))
	assert.Equal(t, tab.DtDz[3], tab.DtDzAt(3))
	assert.InDelta(t, (tab.Hubble[2]+tab.Hubble[3])/2, tab.HubbleAt(2.5), 1e-12*tab.Hubble[3])
}

func TestInterpolate(t *testing.T) {
	xs := []float64{0, 1, 2, 4}
	ys := []float64{0, 10, 20, 0}

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below range clamps", -3, 0},
		{"first knot", 0, 0},
		{"inside first segment", 0.25, 2.5},
		{"on interior knot", 2, 20},
		{"descending segment", 3, 10},
		{"last knot", 4, 0},
		{"above range clamps", 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Interpolate(tt.x, xs, ys), 1e-12)
		})
	}
}

func TestInterpolate_MatchesTableAccessors(t *testing.T) {
	tab := Build(50, 101)
	// Both clamp outside the grid.
	for _, z := range []float64{-5, 0.1, 7.3, 33.33, 49.9, 80} {
		want := Interpolate(z, tab.Z, tab.Age)
		assert.InDelta(t, want, tab.AgeAt(z), 1e-9*math.Abs(want))
		want = Interpolate(z, tab.Z, tab.DtDz)
		assert.InDelta(t, want, tab.DtDzAt(z), 1e-9*math.Abs(want))
	}
}

func TestCache_HitReturnsSameTable(t *testing.T) {
	c := NewCache()

	first := c.Table(100, 20)
	second := c.Table(100, 20)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Builds())
}

func TestCache_KeyChangeReplacesSlot(t *testing.T) {
	c := NewCache()

	a := c.Table(100, 20)
	b := c.Table(100, 30)
	require.NotSame(t, a, b)
	assert.Equal(t, 30, b.NZ)

	// The first key was evicted, so asking again rebuilds.
	a2 := c.Table(100, 20)
	assert.NotSame(t, a, a2)
	assert.Equal(t, 3, c.Builds())
}

func BenchmarkBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Build(1000, 1000)
	}
}
