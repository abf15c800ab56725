package main

import "math"

// blockIntervalMs is the expected time between two consecutive blocks. It
// parameterizes the exponential distribution intervals are drawn from.
const blockIntervalMs = 600_000

// percMultiplier maps integer percentages in [0,100] onto the full 64-bit
// range, so a uniform Rand64 draw can be compared against accumulated
// hashrate shares.
const percMultiplier = math.MaxUint64 / 100

// NextBlockInterval draws the time between the previous and the next block,
// in milliseconds.
func NextBlockInterval(rng *RNG) int64 {
	interval := int64(math.Round(rng.Exporand(blockIntervalMs)))
	if interval < 0 {
		panic("block interval must not go backward")
	}
	return interval
}

// PickFinder selects which miner found the current block, with probability
// proportional to its hashrate share. The walk accumulates the scaled shares
// in the order miners are configured and returns on a strictly greater
// accumulator, so a share of zero can never win.
func PickFinder(miners []*Miner, rng *RNG) *Miner {
	random, acc := rng.Rand64(), uint64(0)
	for _, m := range miners {
		acc += m.Perc * percMultiplier
		if acc > random {
			return m
		}
	}
	panic("the miners' hashrate percentages must add up to 100")
}
