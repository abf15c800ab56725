package main

import "time"

// Simulation is one independent run of the mining process. The mining
// process itself is modeled accurately: the time between blocks is drawn
// from an exponential distribution and the finder from a uniform one
// weighted by hashrate. Difficulty and total network hashrate stay constant.
// Propagation is a simplification: before a miner's propagation delay has
// elapsed no other miner has its block, after it every one has.
//
// A run is strictly single-threaded and does no I/O. The two generators are
// kept separate so interval draws and finder draws come from independent
// streams.
type Simulation struct {
	miners      []*Miner
	intervalRNG *RNG
	finderRNG   *RNG
}

// NewSimulation sets up a run over a deep copy of the miner template.
func NewSimulation(template []*Miner, intervalSeed, finderSeed uint64) *Simulation {
	miners := make([]*Miner, len(template))
	for i, m := range template {
		miners[i] = m.clone()
	}
	return &Simulation{
		miners:      miners,
		intervalRNG: NewRNG(intervalSeed),
		finderRNG:   NewRNG(finderSeed),
	}
}

// Run drives the event loop for the simulated duration and returns the best
// published chain at the end of it.
//
// Advancing straight to the next block find or block arrival is equivalent
// to walking time millisecond by millisecond, because nothing observable
// happens in between. That jump is what makes simulating a year tractable.
func (s *Simulation) Run(duration time.Duration) []Block {
	durationMs := duration.Milliseconds()
	curTime := int64(0)
	nextBlockTime := NextBlockInterval(s.intervalRNG)
	bestChainSize := 1 // just genesis

	for curTime < durationMs {
		// Drain every find due now. A `for`, not an `if`: an interval can
		// round down to zero milliseconds.
		for curTime == nextBlockTime {
			finder := PickFinder(s.miners, s.finderRNG)
			finder.FoundBlock(nextBlockTime, bestChainSize)
			nextBlockTime += NextBlockInterval(s.intervalRNG)
		}
		if curTime > nextBlockTime {
			panic("current time advanced past a block find")
		}

		// Find the longest published chain across all miners and let every
		// miner know about it. They might switch to it, or act on the
		// information: a selfish miner may reveal private blocks.
		bestChain := bestPublishedChain(s.miners, curTime)
		for _, m := range s.miners {
			m.NotifyBestChain(bestChain, curTime)
		}
		// FoundBlock on a later tick compares against the size known at the
		// end of this one to detect a 1-block race.
		bestChainSize = len(bestChain)

		curTime = s.nextEventTime(curTime, nextBlockTime)
	}

	return bestPublishedChain(s.miners, durationMs)
}

// Miners exposes the per-run miner states, for the statistics reducer.
func (s *Simulation) Miners() []*Miner {
	return s.miners
}

// nextEventTime returns the next point in time anything observable happens:
// the next block find, or the earliest pending arrival strictly after
// curTime across all miners' chains.
func (s *Simulation) nextEventTime(curTime, nextBlockTime int64) int64 {
	next := nextBlockTime
	for _, m := range s.miners {
		for i := len(m.Chain) - 1; i >= 0; i-- {
			arrival := m.Chain[i].Arrival
			if arrival <= curTime {
				break
			}
			if arrival != unpublishedArrival && arrival < next {
				next = arrival
			}
		}
	}
	return next
}

// bestPublishedChain scans every miner's published chain at curTime and
// keeps the longest one. Equal lengths fall back to the first-seen rule:
// the chain whose tip arrived first wins. If tip arrivals are equal too, the
// earlier miner in the configured order keeps it, so the choice is
// deterministic.
func bestPublishedChain(miners []*Miner, curTime int64) []Block {
	var best []Block
	for _, m := range miners {
		published := m.PublishedChain(curTime)
		longer := len(published) > len(best)
		firstSeen := len(published) == len(best) && len(published) > 0 &&
			published[len(published)-1].Arrival < best[len(best)-1].Arrival
		if longer || firstSeen {
			best = published
		}
	}
	return best
}
