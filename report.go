package main

import (
	"fmt"
	"io"
	"time"
)

// printReport writes the human-readable results to w: a header with the run
// parameters and one line per miner, in the configured order.
func printReport(w io.Writer, template []*Miner, agg *Aggregate, duration time.Duration) {
	summaries := agg.Summaries()
	fmt.Fprintf(w, "After %d runs of %s (%.0f days) each:\n", agg.Runs(), duration, duration.Hours()/24)
	for i, m := range template {
		s := summaries[i]
		fmt.Fprintf(w, "  - Miner %d (%d%% of network hashrate) found %.1f blocks on average i.e. %.3f%% of blocks. Stale rate: %.3f%%.",
			m.ID, m.Perc, s.BlocksFoundMean, s.BlocksShareMean*100, s.StaleRateMean*100)
		if m.IsSelfish {
			fmt.Fprintf(w, " ('selfish mining' strategy)")
		}
		fmt.Fprintln(w)
	}
}
