// Package rules defines the configurable rule set the engine plays
// under, plus the two canonical presets referenced by the built-in
// basic-strategy charts.
package rules

import "fmt"

// BlackjackRules captures every table rule that affects optimal play.
type BlackjackRules struct {
	Decks                 uint32  `hcl:"decks,optional"`
	ShuffleAtCards        uint32  `hcl:"shuffle_at_cards,optional"`
	BlackjackMultiplier   float64 `hcl:"blackjack_multiplier,optional"`
	HitSoft17             bool    `hcl:"hit_soft_17,optional"`
	SplitHandsLimit       uint32  `hcl:"split_hands_limit,optional"`
	SplitAcesLimit        uint32  `hcl:"split_aces_limit,optional"`
	DoubleAnyHands        bool    `hcl:"double_any_hands,optional"`
	DoubleHardHandsThru11 uint32  `hcl:"double_hard_hands_thru_11,optional"`
	DoubleAfterSplit      bool    `hcl:"double_after_split,optional"`
	HitSplitAces          bool    `hcl:"hit_split_aces,optional"`
}

// OneDeckH17NoDASDouble1011 is the 1-deck, dealer-hits-soft-17, no
// double-after-split, double-on-10-or-11-only preset.
var OneDeckH17NoDASDouble1011 = BlackjackRules{
	Decks:                 1,
	ShuffleAtCards:        26,
	BlackjackMultiplier:   1.5,
	HitSoft17:             true,
	SplitHandsLimit:       4,
	SplitAcesLimit:        2,
	DoubleAnyHands:        false,
	DoubleHardHandsThru11: 10,
	DoubleAfterSplit:      false,
	HitSplitAces:          false,
}

// SixDeckH17DASDoubleAny is the 6-deck, dealer-hits-soft-17,
// double-after-split, double-on-any-two-cards preset.
var SixDeckH17DASDoubleAny = BlackjackRules{
	Decks:                 6,
	ShuffleAtCards:        78,
	BlackjackMultiplier:   1.5,
	HitSoft17:             true,
	SplitHandsLimit:       4,
	SplitAcesLimit:        2,
	DoubleAnyHands:        true,
	DoubleHardHandsThru11: 10,
	DoubleAfterSplit:      true,
	HitSplitAces:          false,
}

// Validate checks field ranges and internal consistency. It is cheap
// enough to call at every rule-set construction site, not just at
// start-up.
func (r BlackjackRules) Validate() error {
	if r.Decks == 0 {
		return fmt.Errorf("rules: decks must be positive")
	}
	if r.ShuffleAtCards == 0 {
		return fmt.Errorf("rules: shuffle_at_cards must be positive")
	}
	if r.ShuffleAtCards > 52*r.Decks {
		return fmt.Errorf("rules: shuffle_at_cards (%d) exceeds shoe size (%d)", r.ShuffleAtCards, 52*r.Decks)
	}
	if r.BlackjackMultiplier <= 0 {
		return fmt.Errorf("rules: blackjack_multiplier must be positive")
	}
	if r.SplitHandsLimit < 1 {
		return fmt.Errorf("rules: split_hands_limit must be at least 1")
	}
	if r.SplitAcesLimit != 2 {
		return fmt.Errorf("rules: split_aces_limit must be 2, resplitting aces is unsupported")
	}
	if r.DoubleHardHandsThru11 > 11 {
		return fmt.Errorf("rules: double_hard_hands_thru_11 must be at most 11")
	}
	return nil
}

// AllowsDouble reports whether a two-card hand with the given total and
// softness qualifies for doubling on its total alone (the num_hands and
// double-after-split conditions are the caller's responsibility).
func (r BlackjackRules) AllowsDouble(total int, isSoft bool) bool {
	if r.DoubleAnyHands {
		return true
	}
	if isSoft {
		return false
	}
	return total >= int(r.DoubleHardHandsThru11) && total <= 11
}

func (r BlackjackRules) String() string {
	return fmt.Sprintf(
		"%d-deck, %s, %s, split-to-%d (aces-to-%d), double-%s%s",
		r.Decks,
		hitStandLabel(r.HitSoft17),
		dasLabel(r.DoubleAfterSplit),
		r.SplitHandsLimit,
		r.SplitAcesLimit,
		doubleLabel(r),
		hitSplitAcesLabel(r.HitSplitAces),
	)
}

func hitStandLabel(hitSoft17 bool) string {
	if hitSoft17 {
		return "H17"
	}
	return "S17"
}

func dasLabel(das bool) string {
	if das {
		return "DAS"
	}
	return "NDAS"
}

func doubleLabel(r BlackjackRules) string {
	if r.DoubleAnyHands {
		return "any"
	}
	return fmt.Sprintf("hard-thru-%d", r.DoubleHardHandsThru11)
}

func hitSplitAcesLabel(hit bool) string {
	if hit {
		return ", hit-split-aces"
	}
	return ""
}
