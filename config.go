package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var config struct {
	Runs     int           `long:"runs" env:"MININGSIM_RUNS" description:"number of independent simulation runs" default:"128"`
	Duration time.Duration `long:"duration" env:"MININGSIM_DURATION" description:"simulated duration of each run" default:"8760h"`
	Workers  int           `long:"workers" env:"MININGSIM_WORKERS" description:"parallel workers, 0 means one per CPU" default:"0"`
	Miners   []string      `long:"miner" description:"miner spec as id:perc:propagation[:selfish], e.g. 3:20:100ms or 4:40:2s:selfish"`
	Preset   string        `long:"preset" description:"generated miner set as dist:count:propagation with dist equal or longtail, e.g. equal:100:10s"`
	PlotDir  string        `long:"plot-dir" description:"write result charts into this directory"`
}

// parseMinerSpec parses one "id:perc:propagation" miner spec with an
// optional ":selfish" suffix.
func parseMinerSpec(spec string) (*Miner, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("bad miner spec %q: want id:perc:propagation[:selfish]", spec)
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad miner id in %q: %w", spec, err)
	}
	perc, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad hashrate percentage in %q: %w", spec, err)
	}
	if perc > 100 {
		return nil, fmt.Errorf("hashrate percentage %d out of [0;100] in %q", perc, spec)
	}
	propagation, err := time.ParseDuration(parts[2])
	if err != nil {
		return nil, fmt.Errorf("bad propagation time in %q: %w", spec, err)
	}
	if propagation < 0 {
		return nil, fmt.Errorf("negative propagation time in %q", spec)
	}
	selfish := false
	if len(parts) == 4 {
		if parts[3] != "selfish" {
			return nil, fmt.Errorf("bad strategy %q in %q: only \"selfish\" is recognized", parts[3], spec)
		}
		selfish = true
	}
	return NewMiner(uint32(id), perc, propagation, selfish), nil
}

// validateMiners rejects configurations the simulation cannot run on:
// duplicate ids or shares not adding up to the whole network.
func validateMiners(miners []*Miner) error {
	if len(miners) == 0 {
		return fmt.Errorf("at least one miner is required")
	}
	seen := make(map[uint32]struct{}, len(miners))
	total := uint64(0)
	for _, m := range miners {
		if _, ok := seen[m.ID]; ok {
			return fmt.Errorf("duplicate miner id %d", m.ID)
		}
		seen[m.ID] = struct{}{}
		total += m.Perc
	}
	if total != 100 {
		return fmt.Errorf("hashrate percentages add up to %d, not 100", total)
	}
	return nil
}

// minersFromConfig builds the miner template from the command line, falling
// back to the built-in experiment when nothing is specified.
func minersFromConfig() ([]*Miner, error) {
	if len(config.Miners) > 0 && config.Preset != "" {
		return nil, fmt.Errorf("--miner and --preset are mutually exclusive")
	}
	var miners []*Miner
	switch {
	case len(config.Miners) > 0:
		for _, spec := range config.Miners {
			m, err := parseMinerSpec(spec)
			if err != nil {
				return nil, err
			}
			miners = append(miners, m)
		}
	case config.Preset != "":
		var err error
		miners, err = parsePreset(config.Preset)
		if err != nil {
			return nil, err
		}
	default:
		miners = defaultMiners()
	}
	if err := validateMiners(miners); err != nil {
		return nil, err
	}
	return miners, nil
}

// defaultMiners is the built-in experiment: four honest miners and a 40%
// miner running the selfish strategy, all propagating in 100ms.
func defaultMiners() []*Miner {
	return []*Miner{
		NewMiner(0, 10, 100*time.Millisecond, false),
		NewMiner(1, 15, 100*time.Millisecond, false),
		NewMiner(2, 15, 100*time.Millisecond, false),
		NewMiner(3, 20, 100*time.Millisecond, false),
		NewMiner(4, 40, 100*time.Millisecond, true),
	}
}

// parsePreset expands "dist:count:propagation" into a generated honest
// miner set.
func parsePreset(preset string) ([]*Miner, error) {
	parts := strings.Split(preset, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("bad preset %q: want dist:count:propagation", preset)
	}
	var dist HashrateDistType
	switch parts[0] {
	case "equal":
		dist = HashrateDistEqual
	case "longtail":
		dist = HashrateDistLongtail
	default:
		return nil, fmt.Errorf("unknown hashrate distribution %q", parts[0])
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil || count < 1 {
		return nil, fmt.Errorf("bad miner count in preset %q", preset)
	}
	propagation, err := time.ParseDuration(parts[2])
	if err != nil {
		return nil, fmt.Errorf("bad propagation time in preset %q: %w", preset, err)
	}
	if propagation < 0 {
		return nil, fmt.Errorf("negative propagation time in preset %q", preset)
	}
	percs := generateMinerPercs(dist, count)
	miners := make([]*Miner, count)
	for i, perc := range percs {
		miners[i] = NewMiner(uint32(i), perc, propagation, false)
	}
	return miners, nil
}

type HashrateDistType int

const (
	HashrateDistEqual HashrateDistType = iota
	HashrateDistLongtail
)

func (t HashrateDistType) String() string {
	switch t {
	case HashrateDistEqual:
		return "equal"
	case HashrateDistLongtail:
		return "longtail"
	default:
		panic("unknown")
	}
}

// generateMinerPercs builds an integer hashrate distribution adding up to
// 100. The longtail shape gives the first miner a third of the network and
// lets the rest decay toward a tail of small miners.
func generateMinerPercs(ty HashrateDistType, n int) []uint64 {
	if n < 1 {
		panic("must have at least one miner")
	}
	if n == 1 {
		return []uint64{100}
	}

	switch ty {
	case HashrateDistLongtail:
		out := []uint64{}
		rem := uint64(100)
		for i := 0; i < n; i++ {
			var take uint64
			if i == n-1 {
				take = rem
			} else {
				take = rem * 6 / 10
				if i == 0 {
					take = rem / 3
				}
				if limit := rem / 3; take > limit {
					take = limit
				}
			}
			out = append(out, take)
			rem -= take
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i] > out[j]
		})
		return out
	case HashrateDistEqual:
		out := make([]uint64, n)
		each := uint64(100 / n)
		for i := range out {
			out[i] = each
		}
		// The first miner takes the rounding remainder.
		out[0] += 100 - each*uint64(n)
		return out
	default:
		panic("impossible")
	}
}
