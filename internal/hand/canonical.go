// Package hand implements the ordered-card CardHand and its
// composition-independent CanonicalHand summary.
package hand

import (
	"fmt"

	"github.com/lox/blackjack-ev/internal/deck"
)

// Kind tags the variant a CanonicalHand currently holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindSingle
	KindHard2
	KindHard3Plus
	KindSoft2
	KindSoft3Plus
	KindPair
	KindBlackjack
	KindBusted
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindSingle:
		return "Single"
	case KindHard2:
		return "Hard2"
	case KindHard3Plus:
		return "Hard3Plus"
	case KindSoft2:
		return "Soft2"
	case KindSoft3Plus:
		return "Soft3Plus"
	case KindPair:
		return "Pair"
	case KindBlackjack:
		return "Blackjack"
	case KindBusted:
		return "Busted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// CanonicalHand is the tagged-variant summary of a partial hand closed
// under "add a rank". Two CardHands with equal CanonicalHand are
// interchangeable for every downstream decision: the solvers only ever
// see this type (or DealerHandHash), never the raw card sequence.
type CanonicalHand struct {
	Kind Kind
	// Total holds the hand total for every variant except Empty,
	// Single, Pair, and Busted, none of which need it (Single and Pair
	// recover their value from Rank; Busted's total is meaningless and
	// must never be read).
	Total int
	// Rank holds the single or paired rank for Single and Pair.
	Rank deck.Rank
}

// Empty is the zero-card starting point for canonicalisation.
func Empty() CanonicalHand {
	return CanonicalHand{Kind: KindEmpty}
}

// Add folds one more rank into the summary, producing the new summary
// without retaining any information beyond what downstream totals need.
func (h CanonicalHand) Add(r deck.Rank) CanonicalHand {
	switch h.Kind {
	case KindEmpty:
		return CanonicalHand{Kind: KindSingle, Rank: r}

	case KindSingle:
		lhs := h.Rank
		if (lhs == deck.Ace && r == deck.Ten) || (lhs == deck.Ten && r == deck.Ace) {
			return CanonicalHand{Kind: KindBlackjack, Total: 21}
		}
		if lhs == r {
			return CanonicalHand{Kind: KindPair, Rank: lhs}
		}
		if lhs == deck.Ace || r == deck.Ace {
			other := lhs
			if lhs == deck.Ace {
				other = r
			}
			return CanonicalHand{Kind: KindSoft2, Total: 11 + other.Value()}
		}
		return CanonicalHand{Kind: KindHard2, Total: lhs.Value() + r.Value()}

	case KindHard2, KindHard3Plus:
		return addToHard(h.Total, r)

	case KindSoft2, KindSoft3Plus:
		return addToSoft(h.Total, r)

	case KindPair:
		return addToPair(h.Rank, r)

	case KindBlackjack:
		return addToSoft(21, r)

	case KindBusted:
		return h

	default:
		panic(fmt.Sprintf("hand: invalid CanonicalHand kind %d", h.Kind))
	}
}

// addToHard implements the Hard2/Hard3Plus transition: an ace that
// would still count as 11 without busting promotes the hand to soft;
// otherwise the new total either stays hard or busts.
func addToHard(prev int, r deck.Rank) CanonicalHand {
	newTotal := prev + r.Value()
	if r == deck.Ace && prev < 11 {
		return CanonicalHand{Kind: KindSoft3Plus, Total: newTotal + 10}
	}
	if newTotal <= 21 {
		return CanonicalHand{Kind: KindHard3Plus, Total: newTotal}
	}
	return CanonicalHand{Kind: KindBusted}
}

// addToSoft implements the Soft2/Soft3Plus transition: once the ace can
// no longer count as 11 without busting, it demotes to 1 (total - 10).
func addToSoft(prev int, r deck.Rank) CanonicalHand {
	newTotal := prev + r.Value()
	if newTotal <= 21 {
		return CanonicalHand{Kind: KindSoft3Plus, Total: newTotal}
	}
	return CanonicalHand{Kind: KindHard3Plus, Total: newTotal - 10}
}

// addToPair implements the Pair transition. A non-ace pair behaves
// exactly like Hard2(2*value) receiving a third card. A pair of aces
// carries hidden softness that a generic Hard2(2) would not: one ace
// can still count as 11 unless the third card is a ten.
func addToPair(paired, r deck.Rank) CanonicalHand {
	if paired == deck.Ace {
		if r == deck.Ten {
			return CanonicalHand{Kind: KindHard3Plus, Total: 12}
		}
		return CanonicalHand{Kind: KindSoft3Plus, Total: 12 + r.Value()}
	}
	return addToHard(2*paired.Value(), r)
}

// AsTotal returns the hand total. Calling this on a Busted hand is a
// contract violation: callers that need a uniform numeric degenerate
// value for busted hands (the EV solver's stand-EV of -1) must special
// case Busted themselves rather than rely on this method.
func (h CanonicalHand) AsTotal() int {
	switch h.Kind {
	case KindEmpty:
		return 0
	case KindSingle:
		return h.Rank.Value()
	case KindPair:
		return 2 * h.Rank.Value()
	case KindBlackjack:
		return 21
	case KindBusted:
		panic("hand: AsTotal called on a Busted CanonicalHand")
	default:
		return h.Total
	}
}

// IsSoft reports whether the hand currently counts an ace as 11.
func (h CanonicalHand) IsSoft() bool {
	switch h.Kind {
	case KindSoft2, KindSoft3Plus, KindBlackjack:
		return true
	default:
		return false
	}
}

// IsBusted reports whether the hand total exceeds 21.
func (h CanonicalHand) IsBusted() bool {
	return h.Kind == KindBusted
}

// IsBlackjack reports a two-card natural.
func (h CanonicalHand) IsBlackjack() bool {
	return h.Kind == KindBlackjack
}

// PairRank reports the paired rank when the hand is exactly a Pair.
func (h CanonicalHand) PairRank() (deck.Rank, bool) {
	if h.Kind != KindPair {
		return 0, false
	}
	return h.Rank, true
}

func (h CanonicalHand) String() string {
	switch h.Kind {
	case KindSingle, KindPair:
		return fmt.Sprintf("%s(%s)", h.Kind, h.Rank)
	case KindEmpty, KindBusted, KindBlackjack:
		return h.Kind.String()
	default:
		return fmt.Sprintf("%s(%d)", h.Kind, h.Total)
	}
}
