package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
)

func sixDeckChart(t *testing.T) *BasicStrategyChart {
	t.Helper()
	c, err := ForRules(rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	return c
}

func TestForRulesIgnoresNonChartFields(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	r.ShuffleAtCards = 52
	r.SplitHandsLimit = 3
	r.BlackjackMultiplier = 1.2

	c, err := ForRules(r)
	require.NoError(t, err)

	want := sixDeckChart(t)
	assert.Equal(t, want.Rows(), c.Rows())
}

func TestForRulesRejectsUnmatchedChartFields(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	r.HitSoft17 = false
	_, err := ForRules(r)
	assert.Error(t, err)
}

func TestRowsCoverEveryClassOncePerUpcard(t *testing.T) {
	c := sixDeckChart(t)
	rows := c.Rows()
	assert.NotEmpty(t, rows)

	seen := make(map[HandClass]bool)
	for _, class := range rows {
		assert.False(t, seen[class], "duplicate row %s", class)
		seen[class] = true

		_, ok := c.ActionsFor(class, deck.Ten)
		assert.True(t, ok, "no entry for %s vs T", class)
	}
}

func TestScenario1HardStand(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Eight, deck.Five)
	plays, err := c.BasicPlays(h, deck.Four)
	require.NoError(t, err)
	assert.Equal(t, []deck.Action{deck.Stand}, plays)

	play, err := c.BasicPlay(h, deck.Four, 1, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Stand, play)
}

func TestScenario2SoftDoubleStandFallback(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Ace, deck.Seven)
	plays, err := c.BasicPlays(h, deck.Three)
	require.NoError(t, err)
	assert.Equal(t, []deck.Action{deck.Double, deck.Stand}, plays)

	play, err := c.BasicPlay(h, deck.Three, 1, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Double, play)
}

func TestScenario3ThreeCardHandFallsBackToHit(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Five, deck.Three, deck.Two)
	plays, err := c.BasicPlays(h, deck.Eight)
	require.NoError(t, err)
	assert.Equal(t, []deck.Action{deck.Double, deck.Hit}, plays)

	play, err := c.BasicPlay(h, deck.Eight, 1, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Hit, play)
}

func TestScenario4AcePairSplitsWithReclassFallback(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Ace, deck.Ace)
	plays, err := c.BasicPlays(h, deck.Ace)
	require.NoError(t, err)
	assert.Equal(t, []deck.Action{deck.Split, deck.Hit}, plays)
}

func TestScenario5SplitCapReachedFallsBackToHit(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Two, deck.Two)

	play, err := c.BasicPlay(h, deck.Two, 3, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Split, play)

	play, err = c.BasicPlay(h, deck.Two, 4, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Hit, play)
}

func TestScenario6NeverSplitTens(t *testing.T) {
	c := sixDeckChart(t)
	h := hand.NewCardHand(deck.Ten, deck.Ten)
	play, err := c.BasicPlay(h, deck.Six, 1, rules.SixDeckH17DASDoubleAny)
	require.NoError(t, err)
	assert.Equal(t, deck.Stand, play)
}

func TestUnknownActionLetterErrors(t *testing.T) {
	_, err := Load(strings.NewReader("Hard,2\n4,X\n"))
	assert.Error(t, err)
}

func TestRowBeforeSectionHeaderErrors(t *testing.T) {
	_, err := Load(strings.NewReader("4,H\n"))
	assert.Error(t, err)
}

func TestNoChartForUnknownRuleSet(t *testing.T) {
	r := rules.SixDeckH17DASDoubleAny
	r.Decks = 8
	_, err := ForRules(r)
	assert.Error(t, err)
}
