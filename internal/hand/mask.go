package hand

import (
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/rules"
)

// ActionMask derives the allowed-action mask for a hand-slot from the
// rule set and the number of hands currently in play, per the table in
// the simulator's player-action-loop contract. It does not know about
// loop-local overrides (post-double, a hit-forbidden split-ace slot);
// callers apply those on top by clearing Hit afterward.
func ActionMask(h CardHand, r rules.BlackjackRules, numHands int) deck.AllowedActions {
	var m deck.AllowedActions
	m[deck.Stand] = true
	m[deck.Hit] = true

	if h.IsTwo() && (r.DoubleAfterSplit || numHands == 1) && r.AllowsDouble(h.Total(), h.IsSoft()) {
		m[deck.Double] = true
	}

	if pairRank, ok := h.IsPair(); ok {
		limit := r.SplitHandsLimit
		if pairRank == deck.Ace {
			limit = r.SplitAcesLimit
		}
		if uint32(numHands) < limit {
			m[deck.Split] = true
		}
	}

	return m
}
