// Package simulator plays out individual blackjack hands against a
// live shoe, dispatching every player decision to either the static
// basic-strategy chart, the perfect-play solver, or both at once (to
// track how much EV the chart leaves on the table). It mirrors the deal
// / naturals / insurance / player-loop / dealer-loop / payout sequence
// of a real table one hand at a time; the worker pool supplies the
// shoe, the RNG, and the repetition.
package simulator

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/comparison"
	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
	"github.com/lox/blackjack-ev/internal/solver"
	"github.com/lox/blackjack-ev/internal/statistics"
)

// DecisionMode selects which source of truth drives player decisions.
type DecisionMode int

const (
	// DecisionBasicStrategy plays purely from the static chart and
	// never buys insurance.
	DecisionBasicStrategy DecisionMode = iota
	// DecisionPerfectPlay plays every decision, including insurance,
	// from the composition-aware solver.
	DecisionPerfectPlay
	// DecisionCompare plays the solver's perfect action but records how
	// it differs from what the chart would have chosen, and whether
	// the solver would have bought insurance the chart declines.
	DecisionCompare
)

func (m DecisionMode) String() string {
	switch m {
	case DecisionBasicStrategy:
		return "basic-strategy"
	case DecisionPerfectPlay:
		return "perfect-play"
	case DecisionCompare:
		return "compare"
	default:
		return fmt.Sprintf("DecisionMode(%d)", int(m))
	}
}

// HandSimulator plays one hand at a time against a caller-owned shoe.
// It holds no shoe or RNG state itself, so a single instance is safe to
// share across worker goroutines as long as each call supplies its own
// *deck.Deck and *rand.Rand.
type HandSimulator struct {
	rules   rules.BlackjackRules
	mode    DecisionMode
	chart   *chart.BasicStrategyChart
	player  *solver.PlayerEVSolver
	heatmap *comparison.Heatmap
}

// NewHandSimulator builds a simulator for the given rule set and
// decision mode. chart is required for DecisionBasicStrategy and
// DecisionCompare; player is required for DecisionPerfectPlay and
// DecisionCompare. heatmap is optional and only consulted under
// DecisionCompare; a nil heatmap simply means deviations aren't
// recorded anywhere but the returned HandResult.
func NewHandSimulator(r rules.BlackjackRules, mode DecisionMode, basicChart *chart.BasicStrategyChart, player *solver.PlayerEVSolver, heatmap *comparison.Heatmap) *HandSimulator {
	if (mode == DecisionBasicStrategy || mode == DecisionCompare) && basicChart == nil {
		panic(fmt.Sprintf("simulator: %s requires a basic-strategy chart", mode))
	}
	if (mode == DecisionPerfectPlay || mode == DecisionCompare) && player == nil {
		panic(fmt.Sprintf("simulator: %s requires a player EV solver", mode))
	}
	return &HandSimulator{rules: r, mode: mode, chart: basicChart, player: player, heatmap: heatmap}
}

// handSlot is one of the (possibly several, after splitting) hands the
// player is juggling during a single round.
type handSlot struct {
	cardHand hand.CardHand
	bet      float64
	finished bool
	// noHit marks a slot descended from splitting a pair of aces under
	// rules.HitSplitAces == false: it gets exactly the one card dealt
	// at split time and can never hit again.
	noHit bool
}

// PlayHand deals and resolves one hand against d, mutating both d (the
// shoe) and rng (the draw source) as cards are consumed. It does not
// decide whether the shoe needs reshuffling first or mark
// HandResult.ShoeReshuffled: that is the worker pool's responsibility,
// since only the pool tracks the shoe's lifetime across many hands.
func (s *HandSimulator) PlayHand(d *deck.Deck, rng *rand.Rand) statistics.HandResult {
	var result statistics.HandResult
	result.BetUnits = 1

	var dealerHand, player hand.CardHand
	dealerUp := dealerHand.DrawInto(d, rng)
	dealerHand.DrawInto(d, rng) // hole card
	player.DrawInto(d, rng)
	player.DrawInto(d, rng)

	holeCard := dealerHand.At(1)
	insuranceROI := s.resolveInsurance(d, &result, dealerUp, holeCard)

	dealerNatural := dealerHand.Length() == 2 && dealerHand.Total() == 21
	playerNatural := player.Length() == 2 && player.Total() == 21

	switch {
	case dealerNatural && playerNatural:
		result.ROI = insuranceROI
		return result
	case dealerNatural:
		result.ROI = insuranceROI - 1
		return result
	case playerNatural:
		result.ROI = insuranceROI + s.rules.BlackjackMultiplier
		return result
	}

	slots := []*handSlot{{cardHand: player, bet: 1}}
	var decisionsMade int
	var anyDeviated bool
	var gainedEV float64

	for idx := 0; idx < len(slots); idx++ {
		sl := slots[idx]
		for !sl.finished {
			numHands := len(slots)
			allowed := hand.ActionMask(sl.cardHand, s.rules, numHands)
			if sl.noHit {
				allowed[deck.Hit] = false
			}

			action, deviated, deltaEV, err := s.decide(sl.cardHand, dealerUp, numHands, allowed, *d)
			if err != nil {
				panic(fmt.Sprintf("simulator: %v", err))
			}
			decisionsMade++
			if deviated {
				anyDeviated = true
				gainedEV += deltaEV
			}

			switch action {
			case deck.Stand:
				sl.finished = true
			case deck.Hit:
				sl.cardHand.DrawInto(d, rng)
				if sl.cardHand.Total() > 21 {
					sl.finished = true
				}
			case deck.Double:
				sl.bet *= 2
				sl.cardHand.DrawInto(d, rng)
				sl.finished = true
			case deck.Split:
				slots = append(slots, s.split(sl, d, rng))
			}
		}
	}

	s.playDealer(&dealerHand, slots, d, rng)
	result.ROI = insuranceROI + settle(dealerHand, slots)
	result.DecisionsMade = decisionsMade
	result.Deviated = anyDeviated
	result.GainedEV = gainedEV
	return result
}

// resolveInsurance offers insurance when the upcard is an ace. The
// probability is computed against the deck as if the hole card were
// still undrawn: it has already been physically removed from d by the
// deal above, so it is added back in for this one calculation only, and
// the real (already-dealt) holeCard resolves the side bet afterward.
func (s *HandSimulator) resolveInsurance(d *deck.Deck, result *statistics.HandResult, upcard, holeCard deck.Rank) float64 {
	if upcard != deck.Ace {
		return 0
	}
	result.InsuranceOffered = true

	var take bool
	switch s.mode {
	case DecisionPerfectPlay, DecisionCompare:
		asIfUndrawn := d.Added(holeCard)
		take, _ = solver.Insurance(asIfUndrawn)
	case DecisionBasicStrategy:
		take = false
	}
	if !take {
		return 0
	}

	result.InsuranceTaken = true
	if holeCard == deck.Ten {
		result.InsuranceWon = true
		return 1
	}
	return -0.5
}

// decide resolves a single player decision per s.mode.
func (s *HandSimulator) decide(ch hand.CardHand, upcard deck.Rank, numHands int, allowed deck.AllowedActions, d deck.Deck) (action deck.Action, deviated bool, gainedEV float64, err error) {
	switch s.mode {
	case DecisionBasicStrategy:
		action, err = s.chart.ContextBasicPlay(ch, upcard, allowed)
		return action, false, 0, err
	case DecisionPerfectPlay:
		res := s.player.EV(allowed, ch.Canonicalize(), splitsLeftFor(s.rules, ch, numHands, allowed), upcard, d)
		return res.BestAction, false, 0, nil
	case DecisionCompare:
		dec, derr := comparison.Decide(s.chart, s.player, ch, upcard, allowed, splitsLeftFor(s.rules, ch, numHands, allowed), d)
		if derr != nil {
			return 0, false, 0, derr
		}
		if s.heatmap != nil {
			s.heatmap.Observe(chart.Classify(ch), upcard, dec.Deviated, dec.GainedEV)
		}
		return dec.PerfectAction, dec.Deviated, dec.GainedEV, nil
	default:
		return 0, false, 0, fmt.Errorf("unknown decision mode %s", s.mode)
	}
}

// splitsLeftFor derives the splitsLeft the solver's contract requires:
// zero whenever Split isn't legal, otherwise the hand limit (aces use
// their own, smaller limit) minus the hands already in play.
func splitsLeftFor(r rules.BlackjackRules, ch hand.CardHand, numHands int, allowed deck.AllowedActions) int {
	if !allowed[deck.Split] {
		return 0
	}
	limit := r.SplitHandsLimit
	if pairRank, ok := ch.IsPair(); ok && pairRank == deck.Ace {
		limit = r.SplitAcesLimit
	}
	return int(limit) - numHands
}

// split breaks a pair into two hands, both ending up with two cards
// immediately, matching how a dealer deals one card to each new hand as
// soon as a split is called. A split pair of aces under !HitSplitAces
// marks both slots noHit, since split aces get exactly the one card
// dealt here and are never offered another.
func (s *HandSimulator) split(sl *handSlot, d *deck.Deck, rng *rand.Rand) *handSlot {
	pairRank, ok := sl.cardHand.IsPair()
	if !ok {
		panic("simulator: split called on a non-pair hand")
	}

	newSlot := &handSlot{bet: sl.bet}
	newSlot.cardHand.Append(pairRank)
	newSlot.cardHand.DrawInto(d, rng)

	replacement, next := d.Draw(rng)
	*d = next
	sl.cardHand.SetAt(1, replacement)

	if pairRank == deck.Ace && !s.rules.HitSplitAces {
		sl.noHit = true
		newSlot.noHit = true
	}
	return newSlot
}

// playDealer runs the dealer's draw loop, but only if at least one
// player slot survived without busting: if every slot is already bust,
// the dealer's hand is irrelevant to the payout and is never drawn out,
// matching how a real dealer skips play when everyone has already lost.
func (s *HandSimulator) playDealer(dealerHand *hand.CardHand, slots []*handSlot, d *deck.Deck, rng *rand.Rand) {
	anyLive := false
	for _, sl := range slots {
		if sl.cardHand.Total() <= 21 {
			anyLive = true
			break
		}
	}
	if !anyLive {
		return
	}

	for {
		total := dealerHand.Total()
		if total < 17 {
			dealerHand.DrawInto(d, rng)
			continue
		}
		if total == 17 && dealerHand.IsSoft() && s.rules.HitSoft17 {
			dealerHand.DrawInto(d, rng)
			continue
		}
		break
	}
}

// settle compares every slot's final total against the dealer's,
// scoring a bust as the lowest possible value (0 for the player, 1 for
// the dealer) so that a busted player always loses to a busted dealer
// rather than pushing against them.
func settle(dealerHand hand.CardHand, slots []*handSlot) float64 {
	dealerScore := dealerHand.Total()
	if dealerScore > 21 {
		dealerScore = 1
	}

	var roi float64
	for _, sl := range slots {
		playerScore := sl.cardHand.Total()
		if playerScore > 21 {
			playerScore = 0
		}
		switch {
		case playerScore > dealerScore:
			roi += sl.bet
		case playerScore < dealerScore:
			roi -= sl.bet
		}
	}
	return roi
}
