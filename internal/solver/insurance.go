package solver

import "github.com/lox/blackjack-ev/internal/deck"

// Insurance computes the perfect-strategy insurance decision. d must be
// the deck as the decision logic sees it: with the dealer's hole card
// still unresolved (i.e. not yet removed), since insurance is a bet on
// that unknown card being a ten. The decision uses strict inequality:
// an EV of exactly zero does not insure.
func Insurance(d deck.Deck) (take bool, ev float64) {
	pTen := d.Distribution(true, true)[deck.Ten]
	ev = 1.0*pTen - 0.5*(1.0-pTen)
	return ev > 0, ev
}
