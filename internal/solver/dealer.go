// Package solver implements the two memoized tree searches that sit at
// the centre of the engine: the dealer-outcome probability search and
// the player expected-value search. Both are pure recursive functions
// over (state, deck) that cache on a string key, following the same
// recursive-traversal shape as a CFR info-set walk, just specialised to
// blackjack's much smaller state space.
package solver

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-ev/internal/bjlru"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
)

const dealerCacheCapacity = 10000

// dealerOutcome is the cached (p_dealer_beats_target, p_push) pair.
type dealerOutcome struct {
	pWin, pPush float64
}

// DealerOutcomeSolver computes the probability the dealer's hand beats
// (or pushes) a given target total, assuming the dealer has already
// been checked for a natural blackjack. It is safe for concurrent use;
// the underlying cache tolerates races between readers since every
// computed value is a pure function of its key.
type DealerOutcomeSolver struct {
	rules rules.BlackjackRules
	cache *bjlru.Cache[dealerOutcome]
}

// NewDealerOutcomeSolver builds a solver for the given rule set.
func NewDealerOutcomeSolver(r rules.BlackjackRules) *DealerOutcomeSolver {
	return &DealerOutcomeSolver{
		rules: r,
		cache: bjlru.NewCache[dealerOutcome](dealerCacheCapacity),
	}
}

// ProbBeats returns (p_dealer_win, p_push) for the dealer ending strictly
// above target versus exactly at target. A target above 21 (the player
// has busted) always resolves to (1, 0): the dealer automatically beats
// a busted player regardless of how the dealer's own hand resolves.
func (s *DealerOutcomeSolver) ProbBeats(target int, dh hand.DealerHandHash, d deck.Deck) (pWin, pPush float64) {
	if target > 21 {
		return 1, 0
	}

	key := dealerKey(target, dh, d)
	if v, ok := s.cache.Get(key); ok {
		return v.pWin, v.pPush
	}

	out := s.compute(target, dh, d)
	s.cache.Put(key, out)
	return out.pWin, out.pPush
}

func (s *DealerOutcomeSolver) compute(target int, dh hand.DealerHandHash, d deck.Deck) dealerOutcome {
	if s.isTerminal(dh) {
		switch {
		case dh.Total > 21:
			return dealerOutcome{0, 0}
		case dh.Total > target:
			return dealerOutcome{1, 0}
		case dh.Total == target:
			return dealerOutcome{0, 1}
		default:
			return dealerOutcome{0, 0}
		}
	}

	// The dealer has already checked for a natural: from the one-card
	// upcard state, a ten-up can never still draw an ace to complete a
	// blackjack (and vice versa), so those ranks are excluded from the
	// sample space entirely rather than masked after the fact.
	canBeTen := !(dh.IsOneCard && dh.Total == 11)
	canBeAce := !(dh.IsOneCard && dh.Total == 10)
	dist := d.Distribution(canBeTen, canBeAce)

	var total dealerOutcome
	for _, r := range deck.Ranks {
		p := dist[r]
		if p == 0 {
			continue
		}
		next := dh.Add(r)
		nextDeck := d.Removed(r)
		pWin, pPush := s.ProbBeats(target, next, nextDeck)
		total.pWin += p * pWin
		total.pPush += p * pPush
	}
	return total
}

// isTerminal reports whether the dealer stands on this hand: total 18
// or above always stands; 17 stands unless it is soft and the rules
// have the dealer hit soft 17.
func (s *DealerOutcomeSolver) isTerminal(dh hand.DealerHandHash) bool {
	if dh.Total >= 18 {
		return true
	}
	if dh.Total >= 17 {
		return !s.rules.HitSoft17 || !dh.IsSoft
	}
	return false
}

// AllOutcomes exposes [P(bust), P(17), P(18), P(19), P(20), P(21)] for
// the given upcard and deck, via five calls into ProbBeats at targets 17
// through 21 (each one's pPush is exactly P(total=target); P(bust) is
// the remainder). Each target keys its own memoization subtree (dealerKey
// includes target), so the five calls share no cache entries and are
// computed concurrently via errgroup rather than sequentially, following
// the same fan-out shape internal/evaluator/equity.go uses for its
// independent Monte-Carlo branches.
func (s *DealerOutcomeSolver) AllOutcomes(upcard deck.Rank, d deck.Deck) (pBust, p17, p18, p19, p20, p21 float64) {
	dh := hand.Upcard(upcard)
	results := make([]float64, 5)

	var g errgroup.Group
	for i, target := range []int{17, 18, 19, 20, 21} {
		i, target := i, target
		g.Go(func() error {
			_, pPush := s.ProbBeats(target, dh, d)
			results[i] = pPush
			return nil
		})
	}
	_ = g.Wait()

	p17, p18, p19, p20, p21 = results[0], results[1], results[2], results[3], results[4]
	pBust = 1 - p17 - p18 - p19 - p20 - p21
	return
}

func dealerKey(target int, dh hand.DealerHandHash, d deck.Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%t|%t|", target, dh.Total, dh.IsSoft, dh.IsOneCard)
	writeDeck(&b, d)
	return b.String()
}

func writeDeck(b *strings.Builder, d deck.Deck) {
	for _, r := range deck.Ranks {
		fmt.Fprintf(b, "%d,", d.CountAt(r))
	}
}
