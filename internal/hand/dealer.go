package hand

import "github.com/lox/blackjack-ev/internal/deck"

// DealerHandHash is the dealer-specific summary the outcome solver
// recurses over. IsOneCard marks the state where only the upcard is
// known; because the dealer has already been checked for a natural, the
// next card drawn from that state cannot complete a blackjack, which is
// why the ten/ace exclusions in the solver key off this flag rather than
// the literal card count.
type DealerHandHash struct {
	Total     int
	IsSoft    bool
	IsOneCard bool
}

// Upcard builds the initial one-card dealer state from the exposed card.
// An ace upcard starts soft at 11, exactly as it would if folded through
// the same ace-as-11-when-possible arithmetic used for every later card.
func Upcard(r deck.Rank) DealerHandHash {
	if r == deck.Ace {
		return DealerHandHash{Total: 11, IsSoft: true, IsOneCard: true}
	}
	return DealerHandHash{Total: r.Value(), IsSoft: false, IsOneCard: true}
}

// Add folds one more dealer card into the hash. The result is never
// one-card again, since only the initial upcard state carries that flag.
// A still-hard hand promotes to soft when an ace can count as 11 without
// busting; an already-soft hand that would bust demotes its ace back to 1.
func (d DealerHandHash) Add(r deck.Rank) DealerHandHash {
	if !d.IsSoft && r == deck.Ace && d.Total < 11 {
		return DealerHandHash{Total: d.Total + 11, IsSoft: true}
	}
	total := d.Total + r.Value()
	if d.IsSoft && total > 21 {
		return DealerHandHash{Total: total - 10, IsSoft: false}
	}
	return DealerHandHash{Total: total, IsSoft: d.IsSoft}
}
