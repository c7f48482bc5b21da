// Package randutil centralises seed derivation for math/rand/v2 so every
// shuffle and simulation draws from a reproducible source.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from a single int64.
// PCG wants two 64-bit seeds; both are derived from the input so the same
// seed always yields the same card order.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// TimeSeeded returns a *rand.Rand seeded from the current time, for
// production shuffles where reproducibility is not wanted.
func TimeSeeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// mix is the splitmix64 finalizer, used to spread weak seeds (small
// integers, timestamps) across the full 64-bit space.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
