// Package comparison tracks how often the composition-aware perfect
// solver disagrees with the static basic-strategy chart, and by how
// much EV each disagreement costs. It is explicitly constructed and
// passed to workers rather than a process-wide singleton, per the
// concurrency model's preference for explicit shared state over hidden
// globals.
package comparison

import (
	"fmt"
	"sync"

	"github.com/lox/blackjack-ev/internal/chart"
	"github.com/lox/blackjack-ev/internal/deck"
)

// Key identifies one (hand-class, upcard) cell of the heatmap.
type Key struct {
	Class  chart.HandClass
	Upcard deck.Rank
}

// Counts accumulates observations for one cell.
type Counts struct {
	TimesSeen     int64
	TimesDeviated int64
	GainedEV      float64
}

// Heatmap is a mutex-guarded, append-only table of deviation counts.
type Heatmap struct {
	mu     sync.Mutex
	counts map[Key]*Counts
}

// NewHeatmap builds an empty heatmap.
func NewHeatmap() *Heatmap {
	return &Heatmap{counts: make(map[Key]*Counts)}
}

// Observe records one decision point: whether the perfect and basic
// actions diverged, and the EV gained (zero when they agree) from
// playing perfectly instead of the chart.
func (h *Heatmap) Observe(class chart.HandClass, upcard deck.Rank, deviated bool, gainedEV float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := Key{Class: class, Upcard: upcard}
	c, ok := h.counts[key]
	if !ok {
		c = &Counts{}
		h.counts[key] = c
	}
	c.TimesSeen++
	if deviated {
		c.TimesDeviated++
	}
	c.GainedEV += gainedEV
}

// Snapshot returns a point-in-time copy safe to print or serialize
// without holding the heatmap's lock.
func (h *Heatmap) Snapshot() map[Key]Counts {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[Key]Counts, len(h.counts))
	for k, c := range h.counts {
		out[k] = *c
	}
	return out
}

// TotalDeviations sums TimesDeviated across every observed cell.
func (h *Heatmap) TotalDeviations() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total int64
	for _, c := range h.counts {
		total += c.TimesDeviated
	}
	return total
}

func (k Key) String() string {
	return fmt.Sprintf("%s vs %s", k.Class, k.Upcard)
}
