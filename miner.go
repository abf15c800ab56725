package main

import "time"

// Miner models one mining participant: its share of the network hashrate,
// the time its blocks take to reach everyone else, its local chain and its
// strategy. Each miner exclusively owns its chain; other components only see
// it through PublishedChain.
type Miner struct {
	ID uint32
	// Perc is the share of the total network hashrate, as an integer
	// percentage. All shares in one simulation add up to 100.
	Perc uint64
	// Propagation is the delay, in milliseconds, between this miner finding
	// a block and every other miner having received it.
	Propagation int64
	// Chain is the miner's local view, always rooted at genesis. It only
	// grows, except that a reorg overwrites entries in place and a selfish
	// reveal rewrites the arrival of private blocks.
	Chain []Block
	// StaleBlocks counts blocks this miner created that were later reorged
	// out of its own chain.
	StaleBlocks int
	// IsSelfish marks a miner running the worst-case (gamma=0) selfish
	// mining strategy from the 2013 Eyal-Sirer paper, "Majority is not
	// enough" (https://arxiv.org/pdf/1311.0243).
	IsSelfish bool
}

// NewMiner creates a miner holding only the genesis block.
func NewMiner(id uint32, perc uint64, propagation time.Duration, selfish bool) *Miner {
	return &Miner{
		ID:          id,
		Perc:        perc,
		Propagation: propagation.Milliseconds(),
		Chain:       []Block{Genesis()},
		IsSelfish:   selfish,
	}
}

// clone deep-copies the miner so every simulation run works on its own
// state, independent from the configured template.
func (m *Miner) clone() *Miner {
	c := *m
	c.Chain = make([]Block, len(m.Chain), len(m.Chain)+64)
	copy(c.Chain, m.Chain)
	return &c
}

// FoundBlock appends the block this miner found at blockTime to its local
// chain. An honest miner starts propagating right away. A selfish miner
// keeps the block private, except when it holds exactly one private block
// and the rest of the network has caught up to the same height: winning that
// race means publishing the private block and the fresh one together.
func (m *Miner) FoundBlock(blockTime int64, bestChainSize int) {
	if !m.IsSelfish {
		m.Chain = append(m.Chain, Block{MinerID: m.ID, Arrival: blockTime + m.Propagation})
		return
	}
	race := m.SelfishBlocks() == 1 && bestChainSize == len(m.Chain)
	if race {
		m.Chain[len(m.Chain)-1].Arrival = blockTime + m.Propagation
		m.Chain = append(m.Chain, Block{MinerID: m.ID, Arrival: blockTime + m.Propagation})
	} else {
		m.Chain = append(m.Chain, Block{MinerID: m.ID, Arrival: unpublishedArrival})
	}
}

// UnpublishedBlocks counts the chain suffix that has not reached the rest of
// the network by curTime, whether in flight or held privately. Arrivals are
// non-decreasing along the chain, so the scan stops at the first propagated
// block.
func (m *Miner) UnpublishedBlocks(curTime int64) int {
	unpublished := 0
	for i := len(m.Chain) - 1; i >= 0; i-- {
		if m.Chain[i].Arrival <= curTime {
			break
		}
		unpublished++
	}
	return unpublished
}

// SelfishBlocks is the length of the private branch at the chain tail. This
// is the paper's privateBranchLen. Always zero for an honest miner.
func (m *Miner) SelfishBlocks() int {
	selfish := 0
	for i := len(m.Chain) - 1; i >= 0; i-- {
		if m.Chain[i].Arrival != unpublishedArrival {
			break
		}
		selfish++
	}
	return selfish
}

// PublishedChain is the prefix of the local chain that every miner could
// know about at curTime. The returned slice aliases the miner's chain and is
// only valid until the next mutation, so callers must not hold it across
// steps.
func (m *Miner) PublishedChain(curTime int64) []Block {
	return m.Chain[:len(m.Chain)-m.UnpublishedBlocks(curTime)]
}

// MaybeReorg switches to bestChain if it is strictly longer than the local
// chain. Only the last few entries ever differ, so entries are overwritten
// in place instead of the chain being rebuilt. A block of ours that gets
// overwritten goes stale.
func (m *Miner) MaybeReorg(bestChain []Block) {
	if len(bestChain) <= len(m.Chain) {
		return
	}
	for i := range bestChain {
		if i >= len(m.Chain) {
			m.Chain = append(m.Chain, bestChain[i])
		} else if m.Chain[i] != bestChain[i] {
			if m.Chain[i].MinerID == m.ID {
				m.StaleBlocks++
			}
			m.Chain[i] = bestChain[i]
		}
	}
}

// MaybeSelfishReveal decides whether a selfish miner publishes part of its
// private branch, following the gamma=0 worst case of section 3.2 of the
// Eyal-Sirer paper: in a 1-block race no honest miner ever mines on the
// selfish block.
func (m *Miner) MaybeSelfishReveal(bestChain []Block, curTime int64) {
	if !m.IsSelfish {
		return
	}
	// Their chain is longer, we have to switch. MaybeReorg will overwrite
	// the private branch.
	if len(bestChain) > len(m.Chain) {
		return
	}
	priv := m.SelfishBlocks()
	lead := len(m.Chain) - len(bestChain)
	if priv <= lead {
		return
	}
	// They are catching up, reveal as many blocks as they just found. With
	// more than one private block left and the lead down to one, publish the
	// whole branch instead: a 1-block race on the final block would be lost.
	reveal := priv - lead
	if priv > 1 && lead == 1 {
		reveal = priv
	}
	// Promote the oldest private blocks first, keeping arrivals monotonic.
	for i := 0; i < reveal; i++ {
		m.Chain[len(m.Chain)-priv+i].Arrival = curTime + m.Propagation
	}
}

// NotifyBestChain lets the miner know about the longest published chain at
// curTime. A selfish miner may reveal private blocks first; everyone then
// reorgs onto the best chain if it is longer.
func (m *Miner) NotifyBestChain(bestChain []Block, curTime int64) {
	m.MaybeSelfishReveal(bestChain, curTime)
	m.MaybeReorg(bestChain)
}

// BlocksFound counts published blocks of the local chain created by this
// miner.
func (m *Miner) BlocksFound(curTime int64) int {
	found := 0
	for _, b := range m.Chain {
		if b.MinerID == m.ID && b.Arrival <= curTime {
			found++
		}
	}
	return found
}

// BlocksFoundShare is the miner's share of the published blocks of its local
// chain, genesis excluded.
func (m *Miner) BlocksFoundShare(curTime int64) float64 {
	published := len(m.Chain) - m.UnpublishedBlocks(curTime)
	found := m.BlocksFound(curTime)
	if found == 0 {
		return 0
	}
	return float64(found) / float64(published-1)
}

// StaleRate is the proportion of stale blocks per block found by this miner.
func (m *Miner) StaleRate(curTime int64) float64 {
	found := m.BlocksFound(curTime)
	if found == 0 {
		return 0
	}
	return float64(m.StaleBlocks) / float64(found)
}
