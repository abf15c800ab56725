// Command miningsimulation estimates, for a given distribution of miner
// hashrates and block propagation times, the long-run share of canonical
// chain blocks each miner earns and its stale block rate. It runs many
// independent Monte Carlo simulations of the Nakamoto-style mining process
// and aggregates them, to study how slow propagation squeezes small miners
// and how much a selfish miner amplifies its revenue.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}
	if config.Runs < 1 {
		logger.Fatal("Invalid run count", zap.Int("runs", config.Runs))
	}
	if config.Duration <= 0 {
		logger.Fatal("Invalid simulation duration", zap.Duration("duration", config.Duration))
	}
	template, err := minersFromConfig()
	if err != nil {
		logger.Fatal("Invalid miner configuration", zap.Error(err))
	}

	mc := &MonteCarlo{
		Runs:     config.Runs,
		Duration: config.Duration,
		Workers:  config.Workers,
		Template: template,
		Logger:   logger,
		Progress: os.Stdout,
	}
	agg, sampleChain := mc.Run()

	printReport(os.Stdout, template, agg, config.Duration)

	if config.PlotDir != "" {
		if err := writeCharts(config.PlotDir, template, agg, sampleChain); err != nil {
			logger.Fatal("Failed to write charts", zap.Error(err))
		}
		logger.Info("Wrote charts", zap.String("dir", config.PlotDir))
	}
}
