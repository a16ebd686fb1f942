// Package chart implements the basic-strategy lookup table: a static
// decision loaded from an embedded tabular resource, with the
// ordered-action-list fallback grammar described by the rule
// specification.
package chart

import (
	"fmt"

	"github.com/lox/blackjack-ev/internal/deck"
	"github.com/lox/blackjack-ev/internal/hand"
)

// ClassKind distinguishes the three chart sections.
type ClassKind int

const (
	ClassHard ClassKind = iota
	ClassSoft
	ClassPair
)

func (k ClassKind) String() string {
	switch k {
	case ClassHard:
		return "Hard"
	case ClassSoft:
		return "Soft"
	case ClassPair:
		return "Pair"
	default:
		return fmt.Sprintf("ClassKind(%d)", int(k))
	}
}

// HandClass is the chart's row key: a hand classified as Hard(total),
// Soft(total), or Pair(rank).
type HandClass struct {
	Kind  ClassKind
	Total int
	Rank  deck.Rank
}

func classifyHard(total int) HandClass { return HandClass{Kind: ClassHard, Total: total} }
func classifySoft(total int) HandClass { return HandClass{Kind: ClassSoft, Total: total} }
func classifyPair(r deck.Rank) HandClass { return HandClass{Kind: ClassPair, Rank: r} }

// Classify assigns the chart row for a hand: a pair is always
// classified as Pair regardless of whether splitting is legal right
// now (the caller resolves legality separately).
func Classify(h hand.CardHand) HandClass {
	if r, ok := h.IsPair(); ok {
		return classifyPair(r)
	}
	if h.IsSoft() {
		return classifySoft(h.Total())
	}
	return classifyHard(h.Total())
}

// ReclassifyPair returns the Hard/Soft classification the same two
// cards would carry if they were not treated as a splittable pair. Only
// a pair of aces carries hidden softness (one ace can still count as
// 11); every other pair reduces to a plain hard total.
func ReclassifyPair(r deck.Rank) HandClass {
	if r == deck.Ace {
		return classifySoft(12)
	}
	return classifyHard(2 * r.Value())
}

func (c HandClass) String() string {
	switch c.Kind {
	case ClassPair:
		return fmt.Sprintf("Pair(%s)", c.Rank)
	default:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Total)
	}
}
