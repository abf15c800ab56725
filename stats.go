package main

import "github.com/montanaflynn/stats"

// MinerRunStats is one run's outcome for one miner, measured against the
// final best chain of that run.
type MinerRunStats struct {
	BlocksFound int
	// BlocksShare is the fraction of the final chain's blocks (genesis
	// excluded) found by the miner.
	BlocksShare float64
	// StaleRate is the miner's stale blocks per block it found.
	StaleRate float64
}

// ReduceRun folds a finished run into per-miner statistics, in miner order.
func ReduceRun(miners []*Miner, bestChain []Block) []MinerRunStats {
	out := make([]MinerRunStats, len(miners))
	total := len(bestChain) - 1 // genesis does not count
	for i, m := range miners {
		found := 0
		for _, b := range bestChain {
			if b.MinerID == m.ID {
				found++
			}
		}
		s := MinerRunStats{BlocksFound: found}
		if found > 0 {
			s.BlocksShare = float64(found) / float64(total)
			s.StaleRate = float64(m.StaleBlocks) / float64(found)
		}
		out[i] = s
	}
	return out
}

// Aggregate collects per-run samples for each miner. Folding order across
// runs does not matter. Add is not safe for concurrent use; the harness
// folds results on a single goroutine.
type Aggregate struct {
	blocksFound [][]float64
	blocksShare [][]float64
	staleRate   [][]float64
}

// NewAggregate prepares an accumulator for the given number of miners.
func NewAggregate(minerCount int) *Aggregate {
	return &Aggregate{
		blocksFound: make([][]float64, minerCount),
		blocksShare: make([][]float64, minerCount),
		staleRate:   make([][]float64, minerCount),
	}
}

// Add folds one run's results in.
func (a *Aggregate) Add(run []MinerRunStats) {
	if len(run) != len(a.blocksFound) {
		panic("run results do not match the configured miner count")
	}
	for i, s := range run {
		a.blocksFound[i] = append(a.blocksFound[i], float64(s.BlocksFound))
		a.blocksShare[i] = append(a.blocksShare[i], s.BlocksShare)
		a.staleRate[i] = append(a.staleRate[i], s.StaleRate)
	}
}

// Runs is the number of runs folded in so far.
func (a *Aggregate) Runs() int {
	if len(a.blocksFound) == 0 {
		return 0
	}
	return len(a.blocksFound[0])
}

// MinerSummary is the across-run aggregation for one miner.
type MinerSummary struct {
	BlocksFoundMean   float64
	BlocksShareMean   float64
	BlocksShareStdDev float64
	StaleRateMean     float64
	StaleRateStdDev   float64
}

// Summaries reduces the collected samples to one summary per miner, in
// miner order.
func (a *Aggregate) Summaries() []MinerSummary {
	out := make([]MinerSummary, len(a.blocksFound))
	for i := range out {
		found, _ := stats.Mean(a.blocksFound[i])
		share, _ := stats.Mean(a.blocksShare[i])
		shareDev, _ := stats.StandardDeviationSample(a.blocksShare[i])
		stale, _ := stats.Mean(a.staleRate[i])
		staleDev, _ := stats.StandardDeviationSample(a.staleRate[i])
		out[i] = MinerSummary{
			BlocksFoundMean:   found,
			BlocksShareMean:   share,
			BlocksShareStdDev: shareDev,
			StaleRateMean:     stale,
			StaleRateStdDev:   staleDev,
		}
	}
	return out
}
