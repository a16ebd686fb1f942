package comparison

import (
	"fmt"
	"math"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/solver"
)

// Decision is the result of comparing a basic-strategy lookup against
// the perfect-play solver at the same decision point.
type Decision struct {
	BasicAction   deck.Action
	PerfectAction deck.Action
	Deviated      bool
	GainedEV      float64
}

// Decide resolves both the basic-strategy action and the perfect-play
// action for the same hand, returning the perfect action (the one
// actually played) alongside the comparison. allowed is the caller's
// fully-resolved mask (including any loop-local overrides such as a
// hit-forbidden split-ace slot); Decide never derives its own mask, so
// those overrides are never silently lost. It panics if the chart
// recommends an action the solver considers illegal: that can only
// happen if the chart and the rule set have drifted out of sync, which
// is a configuration bug, not a recoverable runtime condition.
func Decide(
	basicChart *chart.BasicStrategyChart,
	player *solver.PlayerEVSolver,
	ch hand.CardHand,
	upcard deck.Rank,
	allowed deck.AllowedActions,
	splitsLeft int,
	d deck.Deck,
) (Decision, error) {
	basicAction, err := basicChart.ContextBasicPlay(ch, upcard, allowed)
	if err != nil {
		return Decision{}, err
	}

	canon := ch.Canonicalize()
	res := player.EV(allowed, canon, splitsLeft, upcard, d)

	if math.IsInf(res.PerAction[basicAction], -1) {
		panic(fmt.Sprintf("comparison: basic strategy chose an illegal action %s", basicAction))
	}

	return Decision{
		BasicAction:   basicAction,
		PerfectAction: res.BestAction,
		Deviated:      res.BestAction != basicAction,
		GainedEV:      res.PerAction[res.BestAction] - res.PerAction[basicAction],
	}, nil
}
