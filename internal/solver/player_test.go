package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
)

func newSolvers(r rules.BlackjackRules) (*DealerOutcomeSolver, *PlayerEVSolver) {
	dealerSolver := NewDealerOutcomeSolver(r)
	return dealerSolver, NewPlayerEVSolver(r, dealerSolver)
}

func TestStandEVWithinBounds(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	_, player := newSolvers(r)
	d := deck.NewShoe(r.Decks)
	allowed := deck.NewAllowedActions(deck.Stand)
	h := hand.Empty().Add(deck.Ten).Add(deck.Nine)
	res := player.EV(allowed, h, 0, deck.Six, d)
	assert.GreaterOrEqual(t, res.PerAction[deck.Stand], -1.0)
	assert.LessOrEqual(t, res.PerAction[deck.Stand], 1.0)
}

func TestBustedHandDegeneratesToStandMinusOne(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	_, player := newSolvers(r)
	d := deck.NewShoe(r.Decks)
	busted := hand.CanonicalHand{Kind: hand.KindBusted}
	allowed := deck.NewAllowedActions(deck.Stand, deck.Hit)
	res := player.EV(allowed, busted, 0, deck.Six, d)
	assert.Equal(t, -1.0, res.EV)
	assert.Equal(t, deck.Stand, res.BestAction)
}

func TestContractViolationPanicsOnSplitMismatch(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	_, player := newSolvers(r)
	d := deck.NewShoe(r.Decks)
	h := hand.Empty().Add(deck.Eight).Add(deck.Eight)
	allowed := deck.NewAllowedActions(deck.Stand, deck.Split)
	assert.Panics(t, func() {
		player.EV(allowed, h, 0, deck.Six, d)
	})
}

func TestMemoizationPurityOnPlayerEV(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	_, player := newSolvers(r)
	d := deck.NewShoe(r.Decks)
	h := hand.Empty().Add(deck.Eight).Add(deck.Five)
	allowed := deck.NewAllowedActions(deck.Stand, deck.Hit, deck.Double)
	a := player.EV(allowed, h, 0, deck.Six, d)
	b := player.EV(allowed, h, 0, deck.Six, d)
	assert.Equal(t, a, b)
}

func TestSplitRequiresPairHand(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	_, player := newSolvers(r)
	d := deck.NewShoe(r.Decks)
	h := hand.Empty().Add(deck.Eight).Add(deck.Nine)
	allowed := deck.NewAllowedActions(deck.Stand, deck.Hit, deck.Split)
	assert.Panics(t, func() {
		player.EV(allowed, h, 1, deck.Six, d)
	})
}

func TestInsuranceScenarioExactlyOneThird(t *testing.T) {
	var d deck.Deck
	// Construct a deck of exactly 16 tens and 32 non-tens (summed across
	// the nine non-ten ranks, not evenly, but total mass is what matters
	// for p_ten).
	d = deckWithCounts(16, 32)
	take, ev := Insurance(d)
	assert.InDelta(t, 0.0, ev, 1e-9)
	assert.False(t, take, "strict inequality: EV==0 must not insure")
}

func deckWithCounts(tens, nonTens uint32) deck.Deck {
	d := deck.NewShoe(0) // zero deck: all counts start at zero
	for i := uint32(0); i < tens; i++ {
		d = d.Added(deck.Ten)
	}
	// Spread the non-ten mass across the nine remaining ranks, plus
	// leave room for aces explicitly since insurance only cares about
	// p_ten and the denominator (total remaining cards).
	per := nonTens / 9
	rem := nonTens % 9
	nonTenRanks := []deck.Rank{deck.Two, deck.Three, deck.Four, deck.Five, deck.Six, deck.Seven, deck.Eight, deck.Nine, deck.Ace}
	for i, r := range nonTenRanks {
		n := per
		if uint32(i) < rem {
			n++
		}
		for j := uint32(0); j < n; j++ {
			d = d.Added(r)
		}
	}
	return d
}
