package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceRun(t *testing.T) {
	miners := []*Miner{
		NewMiner(0, 60, 0, false),
		NewMiner(1, 40, 0, false),
	}
	miners[0].StaleBlocks = 1
	bestChain := []Block{
		Genesis(),
		{MinerID: 0, Arrival: 100},
		{MinerID: 1, Arrival: 200},
		{MinerID: 0, Arrival: 300},
		{MinerID: 0, Arrival: 400},
	}

	results := ReduceRun(miners, bestChain)
	require.Len(t, results, 2)
	assert.Equal(t, 3, results[0].BlocksFound)
	assert.InDelta(t, 0.75, results[0].BlocksShare, 1e-9)
	assert.InDelta(t, 1.0/3, results[0].StaleRate, 1e-9)
	assert.Equal(t, 1, results[1].BlocksFound)
	assert.InDelta(t, 0.25, results[1].BlocksShare, 1e-9)
	assert.Zero(t, results[1].StaleRate)
}

// A miner that found nothing gets zeroed shares, not division errors.
func TestReduceRunNoBlocksFound(t *testing.T) {
	miners := []*Miner{
		NewMiner(0, 99, 0, false),
		NewMiner(1, 1, 0, false),
	}
	miners[1].StaleBlocks = 2
	bestChain := []Block{Genesis(), {MinerID: 0, Arrival: 100}}

	results := ReduceRun(miners, bestChain)
	assert.Zero(t, results[1].BlocksFound)
	assert.Zero(t, results[1].BlocksShare)
	assert.Zero(t, results[1].StaleRate)
}

func TestAggregateMeans(t *testing.T) {
	agg := NewAggregate(1)
	agg.Add([]MinerRunStats{{BlocksFound: 10, BlocksShare: 0.4, StaleRate: 0.1}})
	agg.Add([]MinerRunStats{{BlocksFound: 20, BlocksShare: 0.6, StaleRate: 0.3}})

	require.Equal(t, 2, agg.Runs())
	summaries := agg.Summaries()
	require.Len(t, summaries, 1)
	assert.InDelta(t, 15, summaries[0].BlocksFoundMean, 1e-9)
	assert.InDelta(t, 0.5, summaries[0].BlocksShareMean, 1e-9)
	assert.InDelta(t, 0.2, summaries[0].StaleRateMean, 1e-9)
	assert.Greater(t, summaries[0].BlocksShareStdDev, 0.0)
}

func TestAggregateRejectsMismatchedRun(t *testing.T) {
	agg := NewAggregate(2)
	assert.Panics(t, func() {
		agg.Add([]MinerRunStats{{}})
	})
}

func TestMonteCarloRun(t *testing.T) {
	template := []*Miner{
		NewMiner(0, 50, 100*time.Millisecond, false),
		NewMiner(1, 30, 100*time.Millisecond, false),
		NewMiner(2, 20, 100*time.Millisecond, false),
	}
	progress := &bytes.Buffer{}
	mc := &MonteCarlo{
		Runs:     4,
		Duration: 24 * time.Hour,
		Workers:  2,
		Template: template,
		Progress: progress,
	}
	agg, sampleChain := mc.Run()

	require.Equal(t, 4, agg.Runs())
	summaries := agg.Summaries()
	require.Len(t, summaries, 3)

	shares := 0.0
	for _, s := range summaries {
		shares += s.BlocksShareMean
	}
	assert.InDelta(t, 1.0, shares, 0.01)

	require.NotEmpty(t, sampleChain)
	assert.Equal(t, Genesis(), sampleChain[0])

	assert.True(t, strings.Contains(progress.String(), "4/4 runs"))

	// The template stayed pristine: runs only ever touch their own copies.
	for _, m := range template {
		assert.Len(t, m.Chain, 1)
		assert.Zero(t, m.StaleBlocks)
	}
}

func TestRandomSeedsAreFresh(t *testing.T) {
	assert.NotEqual(t, randomSeed(), randomSeed())
}

func TestRunPoolProcessesEverything(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}
	out := make([]bool, len(items))
	runPool(8, items, func(i int) {
		out[i] = true
	})
	for i, done := range out {
		require.Truef(t, done, "item %d left unprocessed", i)
	}
}
