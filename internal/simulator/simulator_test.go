package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/comparison"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/randutil"
	"github.com/lox/blackjack-ev/internal/rules"
	"github.com/lox/blackjack-ev/internal/solver"
	"github.com/lox/blackjack-ev/internal/statistics"
)

func buildChart(t *testing.T, r rules.BlackjackRules) *chart.BasicStrategyChart {
	t.Helper()
	c, err := chart.ForRules(r)
	require.NoError(t, err)
	return c
}

func TestPlayHandNeverPanicsBasicStrategy(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	c := buildChart(t, r)
	sim := NewHandSimulator(r, DecisionBasicStrategy, c, nil, nil)
	rng := randutil.New(1)
	d := deck.NewShoe(r.Decks)

	var stats statistics.Statistics
	for i := 0; i < 500; i++ {
		if d.Total() < r.ShuffleAtCards {
			d = deck.NewShoe(r.Decks)
		}
		result := sim.PlayHand(&d, rng)
		stats.Add(result)
	}
	require.NoError(t, stats.Validate())
	assert.EqualValues(t, 500, stats.Hands)
	assert.Greater(t, stats.DecisionsMade, int64(0))
}

func TestPlayHandCompareModeNeverLosesEVToBasic(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	c := buildChart(t, r)
	dealer := solver.NewDealerOutcomeSolver(r)
	player := solver.NewPlayerEVSolver(r, dealer)
	heatmap := comparison.NewHeatmap()

	sim := NewHandSimulator(r, DecisionCompare, c, player, heatmap)
	rng := randutil.New(7)
	d := deck.NewShoe(r.Decks)

	var stats statistics.Statistics
	for i := 0; i < 300; i++ {
		if d.Total() < r.ShuffleAtCards {
			d = deck.NewShoe(r.Decks)
		}
		result := sim.PlayHand(&d, rng)
		stats.Add(result)
	}

	require.NoError(t, stats.Validate())
	assert.GreaterOrEqual(t, stats.GainedEV, 0.0)
	assert.GreaterOrEqual(t, heatmap.TotalDeviations(), int64(0))
}

func TestPlayHandInsuranceNeverTakenInBasicStrategyMode(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	c := buildChart(t, r)
	sim := NewHandSimulator(r, DecisionBasicStrategy, c, nil, nil)
	rng := randutil.New(42)

	var stats statistics.Statistics
	for i := 0; i < 500; i++ {
		d := deck.NewShoe(r.Decks)
		result := sim.PlayHand(&d, rng)
		stats.Add(result)
	}
	assert.Zero(t, stats.InsuranceTaken)
}

func TestNewHandSimulatorPanicsOnMissingDependency(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	assert.Panics(t, func() {
		NewHandSimulator(r, DecisionBasicStrategy, nil, nil, nil)
	})
	assert.Panics(t, func() {
		NewHandSimulator(r, DecisionPerfectPlay, nil, nil, nil)
	})
}

func TestSettleBustedPlayerLosesToBustedDealer(t *testing.T) {
	dealerHand := hand.NewCardHand(deck.Ten, deck.Ten, deck.Ten) // 30, busted -> scored as 1
	slots := []*handSlot{{cardHand: hand.NewCardHand(deck.Ten, deck.Ten, deck.Ten), bet: 1}}
	assert.Equal(t, -1.0, settle(dealerHand, slots))
}

func TestSettleStandardWinLossPush(t *testing.T) {
	dealerHand := hand.NewCardHand(deck.Ten, deck.Nine) // 19
	slots := []*handSlot{
		{cardHand: hand.NewCardHand(deck.Ten, deck.Ten), bet: 1},    // 20, beats 19
		{cardHand: hand.NewCardHand(deck.Ten, deck.Nine), bet: 1},   // 19, pushes
		{cardHand: hand.NewCardHand(deck.Ten, deck.Eight), bet: 2},  // 18, loses at 2 units
	}
	assert.Equal(t, -1.0, settle(dealerHand, slots))
}
