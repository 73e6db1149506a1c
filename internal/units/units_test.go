package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmicstring-pta/internal/cosmology"
)

func TestShToOmegaGW_Formula(t *testing.T) {
	f, sh := 3e-9, 2e-20
	want := 2 * math.Pi * math.Pi / (3 * cosmology.H0 * cosmology.H0) * f * f * f * sh
	assert.InEpsilon(t, want, ShToOmegaGW(f, sh), 1e-14)
}

func TestShToOmegaGW_NonPositive(t *testing.T) {
	assert.Equal(t, 0.0, ShToOmegaGW(0, 1))
	assert.Equal(t, 0.0, ShToOmegaGW(-1e-9, 1))
	assert.Equal(t, 0.0, ShToOmegaGW(1e-9, 0))
	assert.Equal(t, 0.0, ShToOmegaGW(1e-9, -1))
	assert.Equal(t, 0.0, HcToSh(1e-9, 0))
	assert.Equal(t, 0.0, OmegaGWToSh(0, 1e-9))
}

func TestHcRoundTrip(t *testing.T) {
	for _, tc := range []struct{ f, hc float64 }{
		{1e-9, 1e-14},
		{3.17e-8, 2.4e-15},
		{1e-7, 7e-16},
	} {
		omega := HcToOmegaGW(tc.f, tc.hc)
		require.Greater(t, omega, 0.0)

		sh := OmegaGWToSh(tc.f, omega)
		assert.InEpsilon(t, omega, ShToOmegaGW(tc.f, sh), 1e-12)
		assert.InEpsilon(t, tc.hc, OmegaGWToHc(tc.f, omega), 1e-12)
		assert.InEpsilon(t, HcToSh(tc.f, tc.hc), sh, 1e-12)
	}
}

func TestToOmegaGW(t *testing.T) {
	f := 1e-8

	w, s, err := ToOmegaGW(QuantityOmega, f, 1e-9, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, 1e-9, w)
	assert.Equal(t, 1e-10, s)

	w, s, err = ToOmegaGW(QuantitySh, f, 1e-20, 1e-21)
	require.NoError(t, err)
	assert.InEpsilon(t, ShToOmegaGW(f, 1e-20), w, 1e-14)
	assert.InEpsilon(t, w/10, s, 1e-12)

	w, s, err = ToOmegaGW(QuantityHc, f, 1e-15, 1e-16)
	require.NoError(t, err)
	assert.InEpsilon(t, HcToOmegaGW(f, 1e-15), w, 1e-14)
	assert.InEpsilon(t, 0.2*w, s, 1e-12)

	_, _, err = ToOmegaGW(Quantity("psd"), f, 1, 1)
	assert.ErrorIs(t, err, ErrUnknownQuantity)
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity(" HC ")
	require.NoError(t, err)
	assert.Equal(t, QuantityHc, q)

	q, err = ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, QuantityOmega, q)

	_, err = ParseQuantity("strain")
	assert.ErrorIs(t, err, ErrUnknownQuantity)
}
