package deck

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShoeComposition(t *testing.T) {
	d := NewShoe(6)
	assert.EqualValues(t, 96, d.CountAt(Ten))
	assert.EqualValues(t, 24, d.CountAt(Ace))
	assert.EqualValues(t, 24, d.CountAt(Two))
	assert.EqualValues(t, 312, d.Total())
}

func TestAddedRemovedRoundTrip(t *testing.T) {
	d := NewShoe(1)
	for _, r := range Ranks {
		before := d.CountAt(r)
		after := d.Added(r).Removed(r)
		assert.Equal(t, d, after)
		assert.Equal(t, before, after.CountAt(r))
	}
}

func TestRemoveZeroCountPanics(t *testing.T) {
	var d Deck
	assert.Panics(t, func() { d.Removed(Ace) })
}

func TestDrawDecreasesTotalByOne(t *testing.T) {
	d := NewShoe(1)
	rng := rand.New(rand.NewPCG(1, 2))
	for d.Total() > 0 {
		before := d.Total()
		_, next := d.Draw(rng)
		require.EqualValues(t, before-1, next.Total())
		d = next
	}
}

func TestDistributionSumsToOne(t *testing.T) {
	d := NewShoe(2)
	for _, canTen := range []bool{true, false} {
		for _, canAce := range []bool{true, false} {
			if !canTen && !canAce {
				continue
			}
			dist := d.Distribution(canTen, canAce)
			var sum float64
			for _, p := range dist {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
			if !canTen {
				assert.Zero(t, dist[Ten])
			}
			if !canAce {
				assert.Zero(t, dist[Ace])
			}
		}
	}
}

func TestDrawWeightsByCount(t *testing.T) {
	// A deck with only tens and one ace should draw the ace rarely.
	var d Deck
	d.counts[Ten] = 999
	d.counts[Ace] = 1
	rng := rand.New(rand.NewPCG(7, 9))
	aces := 0
	trials := 2000
	for i := 0; i < trials; i++ {
		r, _ := d.Draw(rng)
		if r == Ace {
			aces++
		}
		d.counts[Ace] = 1 // reset, independent trials over the same skewed shape
	}
	assert.Less(t, aces, trials/10)
}
