package main

import "math"

// genesisID is the reserved miner id of the genesis block, which no miner
// ever created.
const genesisID uint32 = math.MaxUint32

// unpublishedArrival marks a block a selfish miner still holds privately.
// The value never leaves the owning miner's chain: every outside observation
// goes through PublishedChain, which cuts the private suffix off.
const unpublishedArrival int64 = math.MaxInt64

// Block is one entry of a miner's local chain. Arrival is the absolute
// simulation time, in milliseconds, by which every miner has received the
// block.
type Block struct {
	MinerID uint32
	Arrival int64
}

// Genesis returns the shared chain root: the sentinel id, received by
// everyone at time zero.
func Genesis() Block {
	return Block{MinerID: genesisID, Arrival: 0}
}
