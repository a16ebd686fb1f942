package chart

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
	"github.com/lox/blackjack-ev/internal/rules"
)

//go:embed charts/*.csv
var embeddedCharts embed.FS

type chartKey struct {
	class   HandClass
	upcard  deck.Rank
}

// BasicStrategyChart is an immutable (hand-class x upcard) -> ordered
// action-list table. Once constructed it is never mutated, so it is
// safe to share freely across goroutines.
type BasicStrategyChart struct {
	entries map[chartKey][]deck.Action
}

// chartRelevantKey is the subset of BlackjackRules fields that actually
// change the optimal-action table; see doc.go for why the rest are
// deliberately excluded.
type chartRelevantKey struct {
	decks                 uint32
	hitSoft17             bool
	doubleAnyHands        bool
	doubleAfterSplit      bool
	doubleHardHandsThru11 uint32
}

func chartKeyFor(r rules.BlackjackRules) chartRelevantKey {
	return chartRelevantKey{
		decks:                 r.Decks,
		hitSoft17:             r.HitSoft17,
		doubleAnyHands:        r.DoubleAnyHands,
		doubleAfterSplit:      r.DoubleAfterSplit,
		doubleHardHandsThru11: r.DoubleHardHandsThru11,
	}
}

// ForRules selects the built-in chart whose chart-relevant fields match
// r's (see chartRelevantKey): rule fields that only affect simulation
// bookkeeping, not the optimal-action table, do not gate chart selection,
// so two rule sets differing only in those fields share a chart by
// design. No interpolation is performed beyond that: a rule set whose
// chart-relevant fields match neither built-in preset is a configuration
// error.
func ForRules(r rules.BlackjackRules) (*BasicStrategyChart, error) {
	switch chartKeyFor(r) {
	case chartKeyFor(rules.SixDeckH17DASDoubleAny):
		return LoadEmbedded("bs_6d_h17_das.csv")
	case chartKeyFor(rules.OneDeckH17NoDASDouble1011):
		return LoadEmbedded("bs_1d_h17_ndas.csv")
	default:
		return nil, fmt.Errorf("chart: no built-in chart for rule set %s", r)
	}
}

// LoadEmbedded parses one of the chart assets built into the binary.
func LoadEmbedded(name string) (*BasicStrategyChart, error) {
	f, err := embeddedCharts.Open("charts/" + name)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a chart resource from r: a section header row (Hard, Soft
// or Pair, followed by the upcard columns) starts each section, and each
// following row holds a total (or a pair rank) and one action string per
// upcard column.
func Load(r io.Reader) (*BasicStrategyChart, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	c := &BasicStrategyChart{entries: make(map[chartKey][]deck.Action)}

	var section ClassKind
	var haveSection bool
	var columns []deck.Rank

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chart: csv: %w", err)
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		head := strings.TrimSpace(record[0])
		if kind, ok := parseSectionHeader(head); ok {
			cols, err := parseColumns(record[1:])
			if err != nil {
				return nil, err
			}
			section = kind
			columns = cols
			haveSection = true
			continue
		}

		if !haveSection {
			return nil, fmt.Errorf("chart: action row %q precedes any section header", head)
		}

		class, err := parseRowClass(section, head)
		if err != nil {
			return nil, err
		}

		for i, cell := range record[1:] {
			if i >= len(columns) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			actions, err := parseActionString(cell)
			if err != nil {
				return nil, fmt.Errorf("chart: %s vs %s: %w", class, columns[i], err)
			}
			c.entries[chartKey{class: class, upcard: columns[i]}] = actions
		}
	}

	return c, nil
}

func parseSectionHeader(s string) (ClassKind, bool) {
	switch s {
	case "Hard":
		return ClassHard, true
	case "Soft":
		return ClassSoft, true
	case "Pair":
		return ClassPair, true
	default:
		return 0, false
	}
}

func parseColumns(fields []string) ([]deck.Rank, error) {
	cols := make([]deck.Rank, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		r, err := deck.ParseRank(f)
		if err != nil {
			return nil, fmt.Errorf("chart: column header: %w", err)
		}
		cols = append(cols, r)
	}
	return cols, nil
}

func parseRowClass(section ClassKind, head string) (HandClass, error) {
	switch section {
	case ClassPair:
		r, err := deck.ParseRank(head)
		if err != nil {
			return HandClass{}, fmt.Errorf("pair row identifier: %w", err)
		}
		return classifyPair(r), nil
	default:
		total, err := strconv.Atoi(head)
		if err != nil {
			return HandClass{}, fmt.Errorf("unparseable hand total %q", head)
		}
		if section == ClassSoft {
			return classifySoft(total), nil
		}
		return classifyHard(total), nil
	}
}

func parseActionString(s string) ([]deck.Action, error) {
	if s == "" {
		return nil, fmt.Errorf("empty action string")
	}
	actions := make([]deck.Action, 0, len(s))
	for i := 0; i < len(s); i++ {
		a, err := deck.ParseActionLetter(s[i])
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// BasicPlays returns the ordered preference list for a hand against an
// upcard. A pair whose primary preference is Split is extended with the
// actions for the same two cards reclassified as Hard/Soft, so callers
// always get a full fallback sequence even when splitting turns out to
// be illegal. If that reclassified row is absent from the chart, the
// pair's own list is returned unextended rather than erroring: some
// chart revisions omit the non-splittable soft-12 (ace pair) row.
func (c *BasicStrategyChart) BasicPlays(h hand.CardHand, upcard deck.Rank) ([]deck.Action, error) {
	class := Classify(h)
	actions, ok := c.entries[chartKey{class: class, upcard: upcard}]
	if !ok {
		return nil, fmt.Errorf("chart: no entry for %s vs %s", class, upcard)
	}

	result := append([]deck.Action(nil), actions...)
	if class.Kind == ClassPair && len(result) > 0 && result[0] == deck.Split {
		reclass := ReclassifyPair(class.Rank)
		if ext, ok := c.entries[chartKey{class: reclass, upcard: upcard}]; ok {
			result = append(result, ext...)
		}
	}
	return result, nil
}

// ContextBasicPlay returns the first action in BasicPlays that is
// currently legal under allowed.
func (c *BasicStrategyChart) ContextBasicPlay(h hand.CardHand, upcard deck.Rank, allowed deck.AllowedActions) (deck.Action, error) {
	plays, err := c.BasicPlays(h, upcard)
	if err != nil {
		return 0, err
	}
	for _, a := range plays {
		if allowed[a] {
			return a, nil
		}
	}
	return 0, fmt.Errorf("chart: no legal action among %v for %s vs %s", plays, Classify(h), upcard)
}

// BasicPlay derives the allowed-action mask from r and numHands, then
// resolves ContextBasicPlay.
func (c *BasicStrategyChart) BasicPlay(h hand.CardHand, upcard deck.Rank, numHands int, r rules.BlackjackRules) (deck.Action, error) {
	allowed := hand.ActionMask(h, r, numHands)
	return c.ContextBasicPlay(h, upcard, allowed)
}

// ActionsFor looks up a chart row directly by class and upcard, without
// requiring a constructed CardHand. It is used by the CLI's dump-chart
// renderer, which displays the whole table rather than deciding one
// concrete hand.
func (c *BasicStrategyChart) ActionsFor(class HandClass, upcard deck.Rank) ([]deck.Action, bool) {
	actions, ok := c.entries[chartKey{class: class, upcard: upcard}]
	return actions, ok
}

// Rows returns every distinct HandClass present in the chart, ordered
// hard totals ascending, then soft totals ascending, then pairs in rank
// order, for stable table rendering.
func (c *BasicStrategyChart) Rows() []HandClass {
	seen := make(map[HandClass]bool)
	for k := range c.entries {
		seen[k.class] = true
	}

	var hards, softs, pairs []HandClass
	for class := range seen {
		switch class.Kind {
		case ClassHard:
			hards = append(hards, class)
		case ClassSoft:
			softs = append(softs, class)
		case ClassPair:
			pairs = append(pairs, class)
		}
	}
	sort.Slice(hards, func(i, j int) bool { return hards[i].Total < hards[j].Total })
	sort.Slice(softs, func(i, j int) bool { return softs[i].Total < softs[j].Total })
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Rank < pairs[j].Rank })

	rows := append(hards, softs...)
	rows = append(rows, pairs...)
	return rows
}
