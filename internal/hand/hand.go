package hand

import (
	rand "math/rand/v2"

	"github.com/lox/blackjack-ev/internal/deck"
)

// CardHand is an append-only ordered sequence of ranks dealt during a
// simulated hand. Order is retained only so that splits can recover the
// first two cards (the split rank, and the card to replace); equality
// of play is governed entirely by CanonicalHand, never by this type.
type CardHand struct {
	cards []deck.Rank
}

// NewCardHand builds a hand from an explicit card sequence, chiefly for
// tests and chart scenario fixtures.
func NewCardHand(cards ...deck.Rank) CardHand {
	return CardHand{cards: append([]deck.Rank(nil), cards...)}
}

// DrawInto removes one card from d (weighted by remaining composition)
// and appends it to the hand, returning the drawn rank.
func (h *CardHand) DrawInto(d *deck.Deck, rng *rand.Rand) deck.Rank {
	r, next := d.Draw(rng)
	*d = next
	h.cards = append(h.cards, r)
	return r
}

// Append adds a known rank directly, used when a split hand is seeded
// with the rank it was split from.
func (h *CardHand) Append(r deck.Rank) {
	h.cards = append(h.cards, r)
}

// Length returns the number of cards currently in the hand.
func (h CardHand) Length() int {
	return len(h.cards)
}

// At returns the card at index i; used during split to read the first
// two cards.
func (h CardHand) At(i int) deck.Rank {
	return h.cards[i]
}

// SetAt overwrites the card at index i; used to replace a split hand's
// second card after the original pair is broken up.
func (h *CardHand) SetAt(i int, r deck.Rank) {
	h.cards[i] = r
}

func (h CardHand) totalInternal() (int, bool) {
	total := 0
	hasAce := false
	for _, c := range h.cards {
		if c == deck.Ace {
			hasAce = true
			total++
		} else {
			total += c.Value()
		}
	}
	if hasAce && total <= 11 {
		return total + 10, true
	}
	return total, false
}

// Total returns the high total of a soft hand, never accounting for
// blackjack bonuses or busts.
func (h CardHand) Total() int {
	total, _ := h.totalInternal()
	return total
}

// IsSoft reports whether the hand currently counts an ace as 11.
func (h CardHand) IsSoft() bool {
	_, soft := h.totalInternal()
	return soft
}

// IsPair reports whether the hand is exactly two cards of equal rank. It
// does not check upper split limits; the caller applies those.
func (h CardHand) IsPair() (deck.Rank, bool) {
	if len(h.cards) == 2 && h.cards[0] == h.cards[1] {
		return h.cards[0], true
	}
	return 0, false
}

// IsTwo reports whether the hand has exactly two cards. It does not
// check double-after-split eligibility; the caller applies that.
func (h CardHand) IsTwo() bool {
	return len(h.cards) == 2
}

// Canonicalize folds Empty over the card sequence using the
// CanonicalHand addition operator, producing the summary the solvers
// consume.
func (h CardHand) Canonicalize() CanonicalHand {
	c := Empty()
	for _, r := range h.cards {
		c = c.Add(r)
	}
	return c
}
