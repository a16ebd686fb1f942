package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/blackjack-ev/cmd/blackjack-ev/shared"
	"github.com/lox/blackjack-ev/internal/comparison"
	"github.com/lox/blackjack-ev/internal/simulator"
	"github.com/lox/blackjack-ev/internal/worker"
)

// DumpHeatmapCmd runs a short compare-mode batch and prints every cell
// where the perfect solver deviated from basic strategy, along with the
// EV each deviation cost, mirroring original_source's ComparisonBSChart
// Display implementation. Unlike simulate, it always runs to completion
// rather than indefinitely, since its only purpose is the final table.
type DumpHeatmapCmd struct {
	Rules   string `kong:"default='6d-h17-das-dany',help='Rule preset: 6d-h17-das-dany or 1d-h17-ndas-d10'"`
	Hands   int64  `kong:"default='200000',help='Number of hands to sample before printing the table'"`
	Workers int    `kong:"default='20',help='Number of concurrent worker goroutines'"`
	Seed    int64  `kong:"help='RNG seed for reproducible sampling (0 uses seed 1)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *DumpHeatmapCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	r, err := presetByName(c.Rules)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = 1
	}
	pool, err := worker.NewPool(worker.Config{
		Rules:      r,
		Mode:       simulator.DecisionCompare,
		NumWorkers: c.Workers,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	logger.Info("sampling deviations", "rules", r.String(), "hands", c.Hands)
	if _, err := pool.Run(context.Background(), c.Hands, nil); err != nil {
		return err
	}

	renderHeatmap(pool.Heatmap())
	return nil
}

// renderHeatmap prints every heatmap cell with at least one observed
// deviation, sorted by gained EV descending (the costliest chart gaps
// first).
func renderHeatmap(h *comparison.Heatmap) {
	snap := h.Snapshot()

	type row struct {
		key    comparison.Key
		counts comparison.Counts
	}
	var rows []row
	for k, c := range snap {
		if c.TimesDeviated == 0 {
			continue
		}
		rows = append(rows, row{key: k, counts: c})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].counts.GainedEV > rows[j].counts.GainedEV })

	if len(rows) == 0 {
		fmt.Println("no deviations observed")
		return
	}

	var tableRows [][]string
	for _, rw := range rows {
		tableRows = append(tableRows, []string{
			rw.key.String(),
			fmt.Sprintf("%d", rw.counts.TimesSeen),
			fmt.Sprintf("%d", rw.counts.TimesDeviated),
			fmt.Sprintf("%+.4f", rw.counts.GainedEV),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Hand vs Upcard", "Seen", "Deviated", "Gained EV").
		Rows(tableRows...)

	fmt.Printf("%d deviating cells, %d total deviations\n\n%s\n",
		len(rows), h.TotalDeviations(), t.String())
}
