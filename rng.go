package main

import (
	"math"
	"math/bits"
)

// RNG is a xoroshiro128++ generator with both state words seeded through
// SplitMix64. The standard library generators dominate the per-block cost of
// the simulation; this two-word generator is about a cycle per draw and has
// plenty of statistical quality for Monte Carlo use.
type RNG struct {
	s0, s1 uint64
}

// NewRNG derives the two state words from seed with successive SplitMix64
// advances.
func NewRNG(seed uint64) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

func splitMix64(seed *uint64) uint64 {
	*seed += 0x9e3779b97f4a7c15
	z := *seed
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Rand64 returns a uniformly distributed 64-bit value.
func (r *RNG) Rand64() uint64 {
	s0, s1 := r.s0, r.s1
	result := bits.RotateLeft64(s0+s1, 17) + s0
	s1 ^= s0
	r.s0 = bits.RotateLeft64(s0, 49) ^ s1 ^ (s1 << 21)
	r.s1 = bits.RotateLeft64(s1, 28)
	return result
}

// Exporand draws from an exponential distribution with the given mean. The
// log1p form keeps precision when the uniform draw is close to zero.
func (r *RNG) Exporand(mean float64) float64 {
	return -mean * math.Log1p(float64(r.Rand64()>>11)*-0x1p-53)
}

// Uint64 and Seed satisfy the rand source contract of the gonum
// distributions (golang.org/x/exp/rand.Source), so distuv samplers can be
// driven straight from this generator.
func (r *RNG) Uint64() uint64 { return r.Rand64() }

// Seed resets the generator state from a 64-bit seed.
func (r *RNG) Seed(seed uint64) {
	r.s0 = splitMix64(&seed)
	r.s1 = splitMix64(&seed)
}
