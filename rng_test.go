package main

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestRNGReproducible(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 1000; i++ {
		if a.Rand64() != b.Rand64() {
			t.Fatal("same seed must give the same sequence")
		}
	}
}

func TestRNGSeedsDiffer(t *testing.T) {
	a, b := NewRNG(1), NewRNG(2)
	same := 0
	for i := 0; i < 64; i++ {
		if a.Rand64() == b.Rand64() {
			same++
		}
	}
	assert.Zero(t, same)
}

func TestRNGStateWordsDiffer(t *testing.T) {
	r := NewRNG(0)
	assert.NotEqual(t, r.s0, r.s1)
}

func TestRNGReseed(t *testing.T) {
	a := NewRNG(7)
	first := a.Rand64()
	a.Seed(7)
	assert.Equal(t, first, a.Rand64())
}

func TestExporandNonNegative(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 100_000; i++ {
		if r.Exporand(blockIntervalMs) < 0 {
			t.Fatal("exponential draws must not be negative")
		}
	}
}

func TestExporandMean(t *testing.T) {
	r := NewRNG(1234)
	const n = 2_000_000
	sample := make([]float64, n)
	for i := range sample {
		sample[i] = r.Exporand(blockIntervalMs)
	}
	mean, err := stats.Mean(sample)
	require.NoError(t, err)
	assert.InEpsilon(t, float64(blockIntervalMs), mean, 0.01)
}

// The generator doubles as a source for the gonum distributions. Sampling
// the same exponential through distuv must agree with Exporand.
func TestExporandMatchesDistuv(t *testing.T) {
	dist := distuv.Exponential{Rate: 1.0 / blockIntervalMs, Src: NewRNG(99)}
	const n = 1_000_000
	sample := make([]float64, n)
	for i := range sample {
		sample[i] = dist.Rand()
	}
	mean, err := stats.Mean(sample)
	require.NoError(t, err)
	assert.InEpsilon(t, float64(blockIntervalMs), mean, 0.02)
}
