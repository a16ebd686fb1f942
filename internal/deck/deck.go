package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Deck is an immutable rank-histogram: the exact composition of a shoe,
// with no notion of suit or card order. Every operation returns a new
// value; callers that want in-place semantics (the simulator) hold a
// pointer and reassign.
type Deck struct {
	counts [NumRanks]uint32
}

// NewShoe builds the standard composition for n decks: sixteen tens and
// four aces per deck (T fuses four ranks), four of every other rank.
func NewShoe(n uint32) Deck {
	var d Deck
	for _, r := range Ranks {
		switch r {
		case Ten:
			d.counts[r] = 16 * n
		default:
			d.counts[r] = 4 * n
		}
	}
	return d
}

// Total returns the number of cards remaining across all ranks.
func (d Deck) Total() uint32 {
	var total uint32
	for _, c := range d.counts {
		total += c
	}
	return total
}

// CountAt returns the remaining count of a single rank.
func (d Deck) CountAt(r Rank) uint32 {
	return d.counts[r]
}

// Added returns a copy of d with one more card of rank r.
func (d Deck) Added(r Rank) Deck {
	d.counts[r]++
	return d
}

// Removed returns a copy of d with one fewer card of rank r. Removing
// from a zero count is a programming error and panics: callers must
// never ask the deck for a card it does not hold.
func (d Deck) Removed(r Rank) Deck {
	if d.counts[r] == 0 {
		panic(fmt.Sprintf("deck: removed %s from a zero count", r))
	}
	d.counts[r]--
	return d
}

// Draw samples a single rank weighted by remaining counts and returns
// the sampled rank alongside the deck with that card removed. Weighting
// by counts (not by a uniform index over ranks) is required so that T's
// fourfold multiplicity is reflected in the draw probability.
func (d Deck) Draw(rng *rand.Rand) (Rank, Deck) {
	total := d.Total()
	if total == 0 {
		panic("deck: draw from an empty deck")
	}
	pick := rng.Uint64N(uint64(total))
	var acc uint64
	for _, r := range Ranks {
		acc += uint64(d.counts[r])
		if pick < acc {
			return r, d.Removed(r)
		}
	}
	// unreachable: acc == total by construction
	panic("deck: draw failed to select a rank")
}

// Distribution returns the probability of drawing each rank, optionally
// excluding ten and/or ace from the sample space entirely (used by the
// dealer-outcome solver's "no natural blackjack" adjustment, where the
// excluded rank is removed from both numerator and denominator rather
// than masked after normalisation).
func (d Deck) Distribution(canBeTen, canBeAce bool) [NumRanks]float64 {
	var probs [NumRanks]float64
	var total float64
	for _, r := range Ranks {
		if r == Ten && !canBeTen {
			continue
		}
		if r == Ace && !canBeAce {
			continue
		}
		total += float64(d.counts[r])
	}
	if total == 0 {
		return probs
	}
	for _, r := range Ranks {
		if r == Ten && !canBeTen {
			continue
		}
		if r == Ace && !canBeAce {
			continue
		}
		probs[r] = float64(d.counts[r]) / total
	}
	return probs
}
