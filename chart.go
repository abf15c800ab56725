package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// chainMapMaxBlocks bounds the chain map rendering to a month of blocks at
// the expected interval.
const chainMapMaxBlocks = 4320

// writeCharts renders the aggregated results, and the final chain of one
// run, into dir.
func writeCharts(dir string, miners []*Miner, agg *Aggregate, chain []Block) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	colors := minerColors(miners)
	summaries := agg.Summaries()
	if err := plotStaleRates(filepath.Join(dir, "stale_rates.png"), miners, summaries, colors); err != nil {
		return err
	}
	if err := plotShares(filepath.Join(dir, "block_shares.png"), miners, summaries, colors); err != nil {
		return err
	}
	return chainMap(filepath.Join(dir, "chain_map.png"), miners, chain)
}

// minerColors assigns each miner a color from a Viridis gradient scaled by
// hashrate, so the big miners stand apart from the tail.
func minerColors(miners []*Miner) map[uint32]colorful.Color {
	maxPerc := uint64(1)
	for _, m := range miners {
		if m.Perc > maxPerc {
			maxPerc = m.Perc
		}
	}
	grad := colorgrad.Viridis()
	lastColor := colorful.Color{}
	colors := make(map[uint32]colorful.Color, len(miners))
	for _, m := range miners {
		clr := grad.At(1 - float64(m.Perc)/float64(maxPerc))
		if clr == lastColor {
			// Make sure colors are unique.
			clr.R++
		}
		lastColor = clr
		colors[m.ID] = clr
	}
	return colors
}

// plotStaleRates writes a scatter of the mean stale rate against hashrate
// share, one glyph per miner.
func plotStaleRates(path string, miners []*Miner, summaries []MinerSummary, colors map[uint32]colorful.Color) error {
	p := plot.New()
	p.Title.Text = "Stale Rate by Network Hashrate Share"
	p.X.Label.Text = "hashrate (%)"
	p.Y.Label.Text = "stale rate (%)"

	for i, m := range miners {
		scatter, err := plotter.NewScatter(plotter.XYs{{X: float64(m.Perc), Y: summaries[i].StaleRateMean * 100}})
		if err != nil {
			return err
		}
		scatter.Radius = 3
		scatter.Shape = draw.CircleGlyph{}
		scatter.Color = colors[m.ID]
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("miner %d", m.ID), scatter)
	}

	return p.Save(800, 300, path)
}

// plotShares writes a scatter of the mean canonical chain share against
// hashrate share, with the nominal diagonal for reference. Points above the
// diagonal earn more than their hashrate entitles them to.
func plotShares(path string, miners []*Miner, summaries []MinerSummary, colors map[uint32]colorful.Color) error {
	p := plot.New()
	p.Title.Text = "Canonical Chain Share by Network Hashrate Share"
	p.X.Label.Text = "hashrate (%)"
	p.Y.Label.Text = "share of blocks (%)"

	maxPerc := float64(0)
	for _, m := range miners {
		if float64(m.Perc) > maxPerc {
			maxPerc = float64(m.Perc)
		}
	}
	nominal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxPerc, Y: maxPerc}})
	if err != nil {
		return err
	}
	p.Add(nominal, plotter.NewGrid())
	p.Legend.Add("nominal", nominal)

	for i, m := range miners {
		scatter, err := plotter.NewScatter(plotter.XYs{{X: float64(m.Perc), Y: summaries[i].BlocksShareMean * 100}})
		if err != nil {
			return err
		}
		scatter.Radius = 3
		scatter.Shape = draw.CircleGlyph{}
		scatter.Color = colors[m.ID]
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("miner %d", m.ID), scatter)
	}

	return p.Save(800, 300, path)
}

// chainMap renders a final canonical chain as a grid of cells colored by
// finder, genesis excluded, oldest block first. Long chains are cut to the
// most recent chainMapMaxBlocks blocks.
func chainMap(path string, miners []*Miner, chain []Block) error {
	blocks := chain
	if len(blocks) > 0 && blocks[0].MinerID == genesisID {
		blocks = blocks[1:]
	}
	if len(blocks) > chainMapMaxBlocks {
		blocks = blocks[len(blocks)-chainMapMaxBlocks:]
	}

	const cols, cell = 120, 6
	rows := (len(blocks) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	c := gg.NewContext(cols*cell, rows*cell)
	c.SetColor(colornames.White)
	c.DrawRectangle(0, 0, float64(c.Width()), float64(c.Height()))
	c.Fill()

	colors := minerColors(miners)
	for i, b := range blocks {
		c.SetColor(colors[b.MinerID])
		c.DrawRectangle(float64((i%cols)*cell), float64((i/cols)*cell), cell, cell)
		c.Fill()
	}

	return c.SavePNG(path)
}
