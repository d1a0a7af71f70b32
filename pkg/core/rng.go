package core

import "math/rand/v2"

// VehicleClasses is the number of distinct vehicle classes a cell can hold.
const VehicleClasses = 6

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Reseed restarts the stream from the provided seed.
func (r *RNG) Reseed(seed int64) {
	r.r = rand.New(rand.NewPCG(uint64(seed), 0))
}

// Chance reports whether a uniform draw falls below p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Uint8n returns a random uint8 in [0, n).
func (r *RNG) Uint8n(n uint8) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(r.r.IntN(int(n)))
}

// VehicleClass returns a uniformly chosen class in [1, VehicleClasses].
func (r *RNG) VehicleClass() uint8 {
	return 1 + r.Uint8n(VehicleClasses)
}

// FillClasses fills the buffer with empty cells or random vehicle classes,
// occupying each cell with probability density.
func FillClasses(r *rand.Rand, buf []uint8, density float64) {
	for i := range buf {
		if r.Float64() < density {
			buf[i] = uint8(1 + r.IntN(VehicleClasses))
			continue
		}
		buf[i] = 0
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
