package chart

// Chart selection is keyed on chartRelevantKey, not on the whole of
// rules.BlackjackRules: only decks (matched exactly),
// hit_soft_17, double_any_hands, double_after_split, and
// double_hard_hands_thru_11 change what the optimal first action for a
// given hand-vs-upcard actually is. split_hands_limit, shuffle_at_cards,
// and blackjack_multiplier affect simulation bookkeeping (how many
// times a hand can fork, how often the shoe resets, the natural payout)
// but never which action the chart recommends, so two rule sets that
// only disagree on those fields deliberately share one embedded chart
// rather than requiring a byte-identical match or a dedicated asset.
