package hand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack-ev/internal/deck"
)

func TestCanonicalEmpty(t *testing.T) {
	got := Empty().Add(deck.Two)
	assert.Equal(t, CanonicalHand{Kind: KindSingle, Rank: deck.Two}, got)
}

func TestCanonicalSingle(t *testing.T) {
	cases := []struct {
		lhs, rhs deck.Rank
		want     CanonicalHand
	}{
		{deck.Two, deck.Three, CanonicalHand{Kind: KindHard2, Total: 5}},
		{deck.Ace, deck.Ten, CanonicalHand{Kind: KindBlackjack, Total: 21}},
		{deck.Ten, deck.Ace, CanonicalHand{Kind: KindBlackjack, Total: 21}},
		{deck.Five, deck.Five, CanonicalHand{Kind: KindPair, Rank: deck.Five}},
		{deck.Ace, deck.Five, CanonicalHand{Kind: KindSoft2, Total: 16}},
	}
	for _, c := range cases {
		got := CanonicalHand{Kind: KindSingle, Rank: c.lhs}.Add(c.rhs)
		assert.Equal(t, c.want, got, "%s + %s", c.lhs, c.rhs)
	}
}

func TestCanonicalHard(t *testing.T) {
	h16 := CanonicalHand{Kind: KindHard2, Total: 16}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 21}, h16.Add(deck.Five))
	assert.Equal(t, CanonicalHand{Kind: KindBusted}, h16.Add(deck.Six))

	h10 := CanonicalHand{Kind: KindHard2, Total: 10}
	assert.Equal(t, CanonicalHand{Kind: KindSoft3Plus, Total: 21}, h10.Add(deck.Ace))

	h15plus := CanonicalHand{Kind: KindHard3Plus, Total: 15}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 16}, h15plus.Add(deck.Ace))
}

func TestCanonicalSoft(t *testing.T) {
	s18 := CanonicalHand{Kind: KindSoft2, Total: 18}
	assert.Equal(t, CanonicalHand{Kind: KindSoft3Plus, Total: 21}, s18.Add(deck.Three))
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 12}, s18.Add(deck.Four))

	s20 := CanonicalHand{Kind: KindSoft3Plus, Total: 20}
	assert.Equal(t, CanonicalHand{Kind: KindSoft3Plus, Total: 21}, s20.Add(deck.Ace))
}

func TestCanonicalPair(t *testing.T) {
	p8 := CanonicalHand{Kind: KindPair, Rank: deck.Eight}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 21}, p8.Add(deck.Five))
	assert.Equal(t, CanonicalHand{Kind: KindBusted}, p8.Add(deck.Six))

	pa := CanonicalHand{Kind: KindPair, Rank: deck.Ace}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 12}, pa.Add(deck.Ten))
	assert.Equal(t, CanonicalHand{Kind: KindSoft3Plus, Total: 21}, pa.Add(deck.Nine))
	assert.Equal(t, CanonicalHand{Kind: KindSoft3Plus, Total: 13}, pa.Add(deck.Ace))

	pt := CanonicalHand{Kind: KindPair, Rank: deck.Ten}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 21}, pt.Add(deck.Ace))
}

func TestCanonicalBlackjackAndBustedAbsorb(t *testing.T) {
	bj := CanonicalHand{Kind: KindBlackjack, Total: 21}
	assert.Equal(t, CanonicalHand{Kind: KindHard3Plus, Total: 12}, bj.Add(deck.Ace))

	busted := CanonicalHand{Kind: KindBusted}
	assert.Equal(t, busted, busted.Add(deck.Nine))
}

func TestCanonicalizationIgnoresOrder(t *testing.T) {
	a := NewCardHand(deck.Eight, deck.Five, deck.Two)
	b := NewCardHand(deck.Two, deck.Eight, deck.Five)
	assert.Equal(t, a.Canonicalize(), b.Canonicalize())
}

func TestCardHandTotals(t *testing.T) {
	h := NewCardHand(deck.Ace, deck.Seven)
	assert.Equal(t, 18, h.Total())
	assert.True(t, h.IsSoft())

	bust := NewCardHand(deck.Ten, deck.Nine, deck.Five)
	assert.Equal(t, 24, bust.Total())
	assert.False(t, bust.IsSoft())

	pair, ok := NewCardHand(deck.Eight, deck.Eight).IsPair()
	assert.True(t, ok)
	assert.Equal(t, deck.Eight, pair)

	_, ok = NewCardHand(deck.Eight, deck.Nine).IsPair()
	assert.False(t, ok)
}
