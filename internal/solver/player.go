package solver

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/blackjack-ev/internal/bjlru"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
)

const playerCacheCapacity = 1_000_000

// EVResult is the solved value of a player decision point: the best
// action, its EV, and every action's EV for introspection (the
// comparison package and basic-strategy deviation tracking both need
// per-action EVs, not just the winner).
type EVResult struct {
	EV         float64
	BestAction deck.Action
	PerAction  [deck.NumActions]float64
}

// PlayerEVSolver computes the expected value of every legal action from
// a player decision point and recurses through DealerOutcomeSolver for
// the terminal stand comparison.
type PlayerEVSolver struct {
	rules  rules.BlackjackRules
	dealer *DealerOutcomeSolver
	cache  *bjlru.Cache[EVResult]
}

// NewPlayerEVSolver builds a solver for the given rule set, reusing the
// supplied dealer-outcome solver (the two memoization tables are
// independent but typically constructed together per rule set).
func NewPlayerEVSolver(r rules.BlackjackRules, dealer *DealerOutcomeSolver) *PlayerEVSolver {
	return &PlayerEVSolver{
		rules:  r,
		dealer: dealer,
		cache:  bjlru.NewCache[EVResult](playerCacheCapacity),
	}
}

// EV returns the solved decision at this point. allowed[Split] must
// equal (splitsLeft > 0); violating this is a contract bug in the
// caller and panics rather than returning a degraded answer.
func (s *PlayerEVSolver) EV(allowed deck.AllowedActions, playerHand hand.CanonicalHand, splitsLeft int, upcard deck.Rank, d deck.Deck) EVResult {
	if allowed[deck.Split] != (splitsLeft > 0) {
		panic(fmt.Sprintf("solver: contract violation: allowed[Split]=%v but splitsLeft=%d", allowed[deck.Split], splitsLeft))
	}

	key := playerKey(allowed, playerHand, splitsLeft, upcard, d)
	if v, ok := s.cache.Get(key); ok {
		return v
	}

	out := s.compute(allowed, playerHand, splitsLeft, upcard, d)
	s.cache.Put(key, out)
	return out
}

func (s *PlayerEVSolver) compute(allowed deck.AllowedActions, playerHand hand.CanonicalHand, splitsLeft int, upcard deck.Rank, d deck.Deck) EVResult {
	var perAction [deck.NumActions]float64
	for i := range perAction {
		perAction[i] = math.Inf(-1)
	}

	if playerHand.IsBusted() {
		perAction[deck.Stand] = -1
		return EVResult{EV: -1, BestAction: deck.Stand, PerAction: perAction}
	}

	if allowed[deck.Stand] {
		perAction[deck.Stand] = s.evStand(playerHand, upcard, d)
	}
	if allowed[deck.Hit] {
		perAction[deck.Hit] = s.evHit(playerHand, upcard, d, true)
	}
	if allowed[deck.Double] {
		perAction[deck.Double] = 2 * s.evHit(playerHand, upcard, d, false)
	}
	if allowed[deck.Split] {
		perAction[deck.Split] = s.evSplit(playerHand, splitsLeft, upcard, d)
	}

	best := deck.Stand
	bestEV := math.Inf(-1)
	for _, a := range deck.Actions {
		if perAction[a] > bestEV {
			bestEV = perAction[a]
			best = a
		}
	}
	if math.IsInf(bestEV, -1) {
		panic("solver: contract violation: no legal action has a finite EV")
	}
	return EVResult{EV: bestEV, BestAction: best, PerAction: perAction}
}

// evStand compares the player's total against the dealer's outcome
// distribution: ev = p_player_win - p_dealer_win.
func (s *PlayerEVSolver) evStand(playerHand hand.CanonicalHand, upcard deck.Rank, d deck.Deck) float64 {
	target := playerHand.AsTotal()
	dh := hand.Upcard(upcard)
	pDealerWin, pPush := s.dealer.ProbBeats(target, dh, d)
	pPlayerWin := 1 - pDealerWin - pPush
	return pPlayerWin - pDealerWin
}

// evHit enumerates the next-card distribution over the full deck. When
// canActAgain is true (a plain Hit), it recurses into EV with a mask
// permitting only Stand and Hit, relying on EV's own Busted handling to
// degenerate a bust to -1. When false (used by Double, which cuts
// recursion at exactly one more card), it aggregates via evStand
// directly and handles the bust case itself.
func (s *PlayerEVSolver) evHit(playerHand hand.CanonicalHand, upcard deck.Rank, d deck.Deck, canActAgain bool) float64 {
	dist := d.Distribution(true, true)
	var sum float64
	for _, r := range deck.Ranks {
		p := dist[r]
		if p == 0 {
			continue
		}
		nextHand := playerHand.Add(r)
		nextDeck := d.Removed(r)

		if canActAgain {
			nextAllowed := deck.NewAllowedActions(deck.Stand, deck.Hit)
			sum += p * s.EV(nextAllowed, nextHand, 0, upcard, nextDeck).EV
			continue
		}

		if nextHand.IsBusted() {
			sum += p * -1
		} else {
			sum += p * s.evStand(nextHand, upcard, nextDeck)
		}
	}
	return sum
}

// evSplit decomposes a pair into two independently-played hands, each
// starting as Single(r). The new second-card distribution is enumerated
// once and the result doubled, since both hands are identically
// distributed; this halves the branching factor relative to enumerating
// both hands' second cards separately.
func (s *PlayerEVSolver) evSplit(playerHand hand.CanonicalHand, splitsLeft int, upcard deck.Rank, d deck.Deck) float64 {
	splitRank, ok := playerHand.PairRank()
	if !ok {
		panic("solver: evSplit called on a non-pair hand")
	}

	canHitAfter := s.rules.HitSplitAces || splitRank != deck.Ace
	dist := d.Distribution(true, true)

	var sum float64
	for _, c := range deck.Ranks {
		p := dist[c]
		if p == 0 {
			continue
		}
		newHand := hand.Empty().Add(splitRank).Add(c)
		newDeck := d.Removed(c)

		var nextAllowed deck.AllowedActions
		nextAllowed[deck.Stand] = true
		if canHitAfter {
			nextAllowed[deck.Hit] = true
		}

		newSplitsLeft := 0
		if splitsLeft > 1 && c == splitRank {
			nextAllowed[deck.Split] = true
			newSplitsLeft = splitsLeft - 1
		}

		if s.rules.DoubleAfterSplit && s.rules.AllowsDouble(newHand.AsTotal(), newHand.IsSoft()) {
			nextAllowed[deck.Double] = true
		}

		res := s.EV(nextAllowed, newHand, newSplitsLeft, upcard, newDeck)
		sum += p * res.EV
	}
	return 2 * sum
}

func playerKey(allowed deck.AllowedActions, playerHand hand.CanonicalHand, splitsLeft int, upcard deck.Rank, d deck.Deck) string {
	var b strings.Builder
	for _, a := range deck.Actions {
		if allowed[a] {
			b.WriteByte(a.Letter())
		}
	}
	fmt.Fprintf(&b, "|%d|%d|%d|%d|", playerHand.Kind, playerHand.Total, playerHand.Rank, splitsLeft)
	fmt.Fprintf(&b, "%d|", upcard)
	writeDeck(&b, d)
	return b.String()
}
