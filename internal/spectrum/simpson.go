package spectrum

import "math"

// DefaultMaxDepth bounds the bisection depth of Integrate.
const DefaultMaxDepth = 22

// Integrate approximates the integral of fn over [a, b] by adaptive Simpson
// quadrature with absolute tolerance tol. An interval is accepted once the
// refined and coarse estimates agree to within 15*tol, or when maxDepth
// bisections have been spent on it.
func Integrate(fn func(float64) float64, a, b, tol float64, maxDepth int) float64 {
	fa, fb := fn(a), fn(b)
	m := (a + b) / 2
	fm := fn(m)
	whole := simpson(a, b, fa, fm, fb)
	return adaptiveSimpson(fn, a, b, tol, whole, fa, fm, fb, maxDepth)
}

func simpson(a, b, fa, fm, fb float64) float64 {
	return (b - a) / 6 * (fa + 4*fm + fb)
}

func adaptiveSimpson(fn func(float64) float64, a, b, tol, whole, fa, fm, fb float64, depth int) float64 {
	m := (a + b) / 2
	lm := (a + m) / 2
	rm := (m + b) / 2
	flm := fn(lm)
	frm := fn(rm)

	left := simpson(a, m, fa, flm, fm)
	right := simpson(m, b, fm, frm, fb)
	refined := left + right
	delta := refined - whole

	if depth <= 0 || math.Abs(delta) <= 15*tol {
		return refined + delta/15
	}
	return adaptiveSimpson(fn, a, m, tol/2, left, fa, flm, fm, depth-1) +
		adaptiveSimpson(fn, m, b, tol/2, right, fm, frm, fb, depth-1)
}
