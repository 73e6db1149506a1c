// Package units converts gravitational-wave upper limits between strain power
// spectral density S_h, characteristic strain h_c and energy density Ω_gw.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cosmicstring-pta/internal/cosmology"
)

var ErrUnknownQuantity = errors.New("unknown quantity")

// Quantity names the representation an upper limit is published in.
type Quantity string

const (
	QuantityOmega Quantity = "omega"
	QuantitySh    Quantity = "sh"
	QuantityHc    Quantity = "hc"
)

// ParseQuantity accepts the quantity names case-insensitively.
func ParseQuantity(s string) (Quantity, error) {
	switch q := Quantity(strings.ToLower(strings.TrimSpace(s))); q {
	case QuantityOmega, QuantitySh, QuantityHc:
		return q, nil
	case "":
		return QuantityOmega, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuantity, s)
	}
}

func omegaPrefactor() float64 {
	return 2 * math.Pi * math.Pi / (3 * cosmology.H0 * cosmology.H0)
}

// ShToOmegaGW converts a strain PSD (1/Hz) to Ω_gw. Non-positive inputs give 0.
func ShToOmegaGW(f, sh float64) float64 {
	if f <= 0 || sh <= 0 {
		return 0
	}
	return omegaPrefactor() * f * f * f * sh
}

// OmegaGWToSh inverts ShToOmegaGW.
func OmegaGWToSh(f, omega float64) float64 {
	if f <= 0 || omega <= 0 {
		return 0
	}
	return omega / (omegaPrefactor() * f * f * f)
}

// HcToSh uses S_h = h_c² / f.
func HcToSh(f, hc float64) float64 {
	if f <= 0 || hc <= 0 {
		return 0
	}
	return hc * hc / f
}

func ShToHc(f, sh float64) float64 {
	if f <= 0 || sh <= 0 {
		return 0
	}
	return math.Sqrt(f * sh)
}

func HcToOmegaGW(f, hc float64) float64 {
	return ShToOmegaGW(f, HcToSh(f, hc))
}

func OmegaGWToHc(f, omega float64) float64 {
	return ShToHc(f, OmegaGWToSh(f, omega))
}

// ToOmegaGW converts a value and its 1σ error in quantity q to Ω_gw, propagating
// the error to first order.
func ToOmegaGW(q Quantity, f, value, sigma float64) (float64, float64, error) {
	switch q {
	case QuantityOmega, "":
		return value, sigma, nil
	case QuantitySh:
		return ShToOmegaGW(f, value), ShToOmegaGW(f, sigma), nil
	case QuantityHc:
		omega := HcToOmegaGW(f, value)
		if value <= 0 {
			return omega, 0, nil
		}
		// Ω ∝ h_c², so σ_Ω = 2 Ω σ / h_c.
		return omega, 2 * omega * sigma / value, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownQuantity, q)
	}
}
