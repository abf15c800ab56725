package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// MonteCarlo runs a number of independent simulations in parallel and folds
// their per-miner statistics. Workers share nothing: each run owns its
// miners, its two generators and its result slot, so the only serialization
// point is the fold after the pool drains.
type MonteCarlo struct {
	Runs     int
	Duration time.Duration
	// Workers bounds the parallelism. Zero or negative means one worker per
	// available CPU.
	Workers  int
	Template []*Miner
	Logger   *zap.Logger
	// Progress, when set, receives a carriage-return progress line as
	// batches of runs complete.
	Progress io.Writer
}

// Run executes every simulation and returns the aggregated statistics along
// with the final best chain of the first run, kept for rendering.
func (mc *MonteCarlo) Run() (*Aggregate, []Block) {
	logger := mc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := mc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger.Info("starting simulations",
		zap.Int("runs", mc.Runs),
		zap.Duration("duration", mc.Duration),
		zap.Int("workers", workers),
		zap.Int("miners", len(mc.Template)))
	start := time.Now()

	batch := mc.Runs / 100
	if batch < 1 {
		batch = 1
	}

	results := make([][]MinerRunStats, mc.Runs)
	sampleChains := make([][]Block, mc.Runs)
	indices := make([]int, mc.Runs)
	for i := range indices {
		indices[i] = i
	}

	var done atomic.Int64
	runPool(workers, indices, func(i int) {
		sim := NewSimulation(mc.Template, randomSeed(), randomSeed())
		finalChain := sim.Run(mc.Duration)
		results[i] = ReduceRun(sim.Miners(), finalChain)
		if i == 0 {
			sampleChains[0] = append([]Block(nil), finalChain...)
		}
		if n := done.Add(1); mc.Progress != nil && n%int64(batch) == 0 {
			fmt.Fprintf(mc.Progress, "\r%d%% (%d/%d runs)", n*100/int64(mc.Runs), n, mc.Runs)
		}
	})
	if mc.Progress != nil {
		fmt.Fprintf(mc.Progress, "\r100%% (%d/%d runs)\n", mc.Runs, mc.Runs)
	}

	agg := NewAggregate(len(mc.Template))
	for _, run := range results {
		agg.Add(run)
	}
	logger.Info("simulations finished", zap.Duration("elapsed", time.Since(start)))
	return agg, sampleChains[0]
}

// randomSeed draws a fresh generator seed from the operating system entropy
// source. Runs must be statistically independent, and clock-derived seeds
// collide across workers started in the same instant.
func randomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("reading the system entropy source: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:])
}
