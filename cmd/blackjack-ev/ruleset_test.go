package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-ev/internal/rules"
)

func TestPresetByName(t *testing.T) {
	six, err := presetByName("6d-h17-das-dany")
	require.NoError(t, err)
	assert.Equal(t, rules.SixDeckH17DASDoubleAny, six)

	one, err := presetByName("1d-h17-ndas-d10")
	require.NoError(t, err)
	assert.Equal(t, rules.OneDeckH17NoDASDouble1011, one)

	_, err = presetByName("bogus")
	assert.Error(t, err)
}

func TestLoadRuleOverridesMissingFileReturnsBase(t *testing.T) {
	base := rules.SixDeckH17DASDoubleAny
	got, err := loadRuleOverrides("", base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	got, err = loadRuleOverrides(filepath.Join(t.TempDir(), "missing.hcl"), base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestLoadRuleOverridesAppliesPartialOverride(t *testing.T) {
	base := rules.SixDeckH17DASDoubleAny
	path := filepath.Join(t.TempDir(), "rules.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
shuffle_at_cards = 52
double_any_hands = false
`), 0o600))

	got, err := loadRuleOverrides(path, base)
	require.NoError(t, err)
	assert.EqualValues(t, 52, got.ShuffleAtCards)
	assert.False(t, got.DoubleAnyHands)
	assert.Equal(t, base.Decks, got.Decks)
	assert.Equal(t, base.HitSoft17, got.HitSoft17)
}
