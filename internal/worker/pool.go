// Package worker drives the hand simulator across a fixed-width pool of
// goroutines, each dealing hands against its own shoe as fast as it
// can, batching results locally and folding them into a shared
// aggregate on a fixed cadence. The shape — N goroutines via
// errgroup.Group, each seeded from a mutex-protected parent RNG,
// reporting into a shared mutex-guarded total — follows
// internal/evaluator/equity.go's Monte-Carlo fan-out and
// internal/server/pool.go's WithRNG pattern in the teacher repository.
package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/comparison"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/randutil"
	"github.com/lox/blackjack-ev/internal/rules"
	"github.com/lox/blackjack-ev/internal/simulator"
	"github.com/lox/blackjack-ev/internal/solver"
	"github.com/lox/blackjack-ev/internal/statistics"
)

// DefaultWorkers is the pool width used when Config.NumWorkers is zero,
// matching original_source/src/main.rs's THREADS constant.
const DefaultWorkers = 20

// DefaultBatchInterval is how long each worker accumulates hands
// locally before folding them into the shared total, matching
// original_source/src/main.rs's TIME_BETWEEN_THREAD_REPORTS.
const DefaultBatchInterval = 500 * time.Millisecond

// Config configures a Pool.
type Config struct {
	Rules         rules.BlackjackRules
	Mode          simulator.DecisionMode
	NumWorkers    int
	BatchInterval time.Duration
	Seed          int64
	// Clock sources the batch-aggregation ticker. Defaults to
	// quartz.NewReal(); tests inject quartz.NewMock(t) to advance the
	// 0.5s reporting cadence deterministically instead of sleeping.
	Clock quartz.Clock
}

// Pool runs Config.NumWorkers simulator loops concurrently against the
// same rule set and decision mode, sharing one basic-strategy chart,
// one player EV solver, and (under DecisionCompare) one deviation
// heatmap across every worker.
type Pool struct {
	cfg     Config
	chart   *chart.BasicStrategyChart
	player  *solver.PlayerEVSolver
	heatmap *comparison.Heatmap

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPool builds the solver/chart/heatmap dependencies Config.Mode
// requires and returns a ready-to-run Pool.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultWorkers
	}
	if cfg.BatchInterval <= 0 {
		cfg.BatchInterval = DefaultBatchInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	p := &Pool{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}

	if cfg.Mode == simulator.DecisionBasicStrategy || cfg.Mode == simulator.DecisionCompare {
		c, err := chart.ForRules(cfg.Rules)
		if err != nil {
			return nil, fmt.Errorf("worker: %w", err)
		}
		p.chart = c
	}
	if cfg.Mode == simulator.DecisionPerfectPlay || cfg.Mode == simulator.DecisionCompare {
		dealer := solver.NewDealerOutcomeSolver(cfg.Rules)
		p.player = solver.NewPlayerEVSolver(cfg.Rules, dealer)
	}
	if cfg.Mode == simulator.DecisionCompare {
		p.heatmap = comparison.NewHeatmap()
	}

	return p, nil
}

// Heatmap returns the pool's shared deviation heatmap, or nil outside
// DecisionCompare mode.
func (p *Pool) Heatmap() *comparison.Heatmap {
	return p.heatmap
}

// nextWorkerSeed draws one int64 under the pool's RNG mutex, mirroring
// BotPool.WithRNG's exclusive-access pattern so that per-worker seed
// derivation is itself race-free.
func (p *Pool) nextWorkerSeed() int64 {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Int63()
}

// Run launches Config.NumWorkers goroutines, each playing hands
// continuously until ctx is cancelled or handLimit hands have been
// played in total (handLimit <= 0 means unlimited). onBatch, if
// non-nil, is invoked with a snapshot of the running total every time
// any worker folds a batch in; it must not block meaningfully since it
// runs while holding the aggregation mutex. Run blocks until every
// worker has stopped and returns the final aggregate.
func (p *Pool) Run(ctx context.Context, handLimit int64, onBatch func(statistics.Statistics)) (statistics.Statistics, error) {
	sim := simulator.NewHandSimulator(p.cfg.Rules, p.cfg.Mode, p.chart, p.player, p.heatmap)

	var mu sync.Mutex
	var total statistics.Statistics
	limitReached := handLimit > 0

	merge := func(batch statistics.Statistics) bool {
		mu.Lock()
		defer mu.Unlock()
		total.Merge(batch)
		if onBatch != nil {
			onBatch(total)
		}
		return limitReached && total.Hands >= handLimit
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.cfg.NumWorkers; w++ {
		seed := p.nextWorkerSeed()
		g.Go(func() error {
			return p.runWorker(gctx, sim, seed, merge)
		})
	}

	err := g.Wait()
	if err == context.Canceled || err == context.DeadlineExceeded || err == errHandLimitReached {
		err = nil
	}
	return total, err
}

// errHandLimitReached is returned by runWorker once the shared hand
// limit is reached, so errgroup cancels every sibling worker's context.
// Run treats it as a normal stop condition, not a failure.
var errHandLimitReached = fmt.Errorf("worker: hand limit reached")

func (p *Pool) runWorker(ctx context.Context, sim *simulator.HandSimulator, seed int64, merge func(statistics.Statistics) bool) error {
	rng := randutil.New(seed)
	d := deck.NewShoe(p.cfg.Rules.Decks)

	var batch statistics.Statistics
	ticker := p.cfg.Clock.NewTicker(p.cfg.BatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			merge(batch)
			return ctx.Err()
		case <-ticker.C:
			if merge(batch) {
				return errHandLimitReached
			}
			batch = statistics.Statistics{}
		default:
			reshuffled := false
			if d.Total() <= p.cfg.Rules.ShuffleAtCards {
				d = deck.NewShoe(p.cfg.Rules.Decks)
				reshuffled = true
			}
			result := sim.PlayHand(&d, rng)
			result.ShoeReshuffled = reshuffled
			batch.Add(result)
		}
	}
}
