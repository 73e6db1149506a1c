package sampler

// Source supplies uniform variates in [0, 1]. *math/rand.Rand and
// *math/rand/v2.Rand both satisfy it.
type Source interface {
	Float64() float64
}

// FastRNG is a splitmix64 generator. It is not safe for concurrent use; give
// every chain its own instance.
type FastRNG struct {
	state uint64
}

func NewFastRNG(seed int64) *FastRNG {
	return &FastRNG{state: uint64(seed)}
}

func (r *FastRNG) Float64() float64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return float64(z^(z>>31)) / float64(1<<64-1)
}
