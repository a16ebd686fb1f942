package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-ev/cmd/blackjack-ev/shared"
	"github.com/lox/blackjack-ev/internal/simulator"
	"github.com/lox/blackjack-ev/internal/statistics"
	"github.com/lox/blackjack-ev/internal/tui"
	"github.com/lox/blackjack-ev/internal/worker"
)

// SimulateCmd runs the worker pool, printing (or rendering, under
// --interactive) running totals as hands are played. It is intended to
// run indefinitely when --hands is 0, matching spec.md §5.
type SimulateCmd struct {
	Rules        string `kong:"default='6d-h17-das-dany',help='Rule preset: 6d-h17-das-dany or 1d-h17-ndas-d10'"`
	Config       string `kong:"help='Optional HCL file overriding the selected rule preset'"`
	Workers      int    `kong:"default='20',help='Number of concurrent worker goroutines'"`
	Hands        int64  `kong:"default='0',help='Stop after this many hands; 0 runs indefinitely'"`
	Seed         int64  `kong:"help='RNG seed for reproducible runs (defaults to the current time)'"`
	Interactive  bool   `kong:"help='Render a live bubbletea status view instead of plain-text lines'"`
	CompareBasic bool   `kong:"name='compare-basic',help='Play perfect solver actions while tracking deviation from basic strategy'"`
	Debug        bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	base, err := presetByName(c.Rules)
	if err != nil {
		return err
	}
	r, err := loadRuleOverrides(c.Config, base)
	if err != nil {
		return err
	}

	mode := simulator.DecisionBasicStrategy
	if c.CompareBasic {
		mode = simulator.DecisionCompare
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting simulation",
		"rules", r.String(), "mode", mode.String(), "workers", c.Workers, "hands", c.Hands, "seed", seed)

	pool, err := worker.NewPool(worker.Config{
		Rules:      r,
		Mode:       mode,
		NumWorkers: c.Workers,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()

	if c.Interactive {
		return c.runInteractive(ctx, logger, pool, start)
	}
	return c.runPlain(ctx, logger, pool, start)
}

func (c *SimulateCmd) runPlain(ctx context.Context, logger *log.Logger, pool *worker.Pool, start time.Time) error {
	var lastPrint time.Time
	onBatch := func(s statistics.Statistics) {
		if time.Since(lastPrint) < time.Second {
			return
		}
		lastPrint = time.Now()
		printStatusLine(logger, s, time.Since(start))
	}

	final, err := pool.Run(ctx, c.Hands, onBatch)
	printStatusLine(logger, final, time.Since(start))
	if err != nil {
		return err
	}
	if pool.Heatmap() != nil {
		renderHeatmap(pool.Heatmap())
	}
	return nil
}

func (c *SimulateCmd) runInteractive(ctx context.Context, logger *log.Logger, pool *worker.Pool, start time.Time) error {
	updates := make(chan tui.Update, 1)
	onBatch := func(s statistics.Statistics) {
		select {
		case updates <- tui.Update{Stats: s, Elapsed: time.Since(start)}:
		default:
		}
	}

	model := tui.NewStatusModel(updates, logger)
	program := tea.NewProgram(model)

	runErrCh := make(chan error, 1)
	go func() {
		_, err := pool.Run(ctx, c.Hands, onBatch)
		close(updates)
		runErrCh <- err
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("cmd/blackjack-ev: tui: %w", err)
	}
	return <-runErrCh
}

func printStatusLine(logger *log.Logger, s statistics.Statistics, elapsed time.Duration) {
	handsPerSec := 0.0
	if elapsed > 0 {
		handsPerSec = float64(s.Hands) / elapsed.Seconds()
	}
	fields := []interface{}{
		"hands", s.Hands,
		"hands/sec", fmt.Sprintf("%.1f", handsPerSec),
		"roi", fmt.Sprintf("%+.2f", s.SumROI),
		"edge%", fmt.Sprintf("%+.3f", s.EdgePercent()),
	}
	if s.DecisionsMade > 0 {
		fields = append(fields,
			"deviations", s.Deviations,
			"gained_ev", fmt.Sprintf("%+.2f", s.GainedEV),
		)
	}
	logger.Info("status", fields...)
}
