package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusActive, ParseStatus("active"))
	assert.Equal(t, StatusActive, ParseStatus("  Active "))
	assert.Equal(t, StatusRebalancing, ParseStatus("REBALANCING"))
	assert.Equal(t, StatusUnknown, ParseStatus(""))
	assert.Equal(t, StatusUnknown, ParseStatus("errored-out"))
	assert.Equal(t, StatusUnknown, ParseStatus("re-balancing"))
}

func TestCategoryIsTotal(t *testing.T) {
	cases := map[BotStatus]DisplayCategory{
		StatusCreated:     CategoryNeutral,
		StatusActive:      CategoryActive,
		StatusResumed:     CategoryActive,
		StatusRebalancing: CategoryProcessing,
		StatusMinting:     CategoryProcessing,
		StatusWithdrawing: CategoryProcessing,
		StatusStopped:     CategoryTerminal,
		StatusWithdrawn:   CategoryTerminal,
		StatusError:       CategoryError,
		StatusUnknown:     CategoryNeutral,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.Category(), "status %q", status)
	}
}

func TestUnknownTagNeverInheritsCategory(t *testing.T) {
	// "withdrawing-v2" contains "withdrawing" but is not a known tag;
	// it must land in the neutral bucket, not processing.
	s := ParseStatus("withdrawing-v2")
	assert.Equal(t, CategoryNeutral, s.Category())
	assert.False(t, s.Processing())
}

func TestProcessingAndTerminal(t *testing.T) {
	assert.True(t, StatusMinting.Processing())
	assert.False(t, StatusMinting.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusActive.Terminal())
}

func TestFeeTier(t *testing.T) {
	for _, f := range []FeeTier{100, 500, 1500, 3000, 10000} {
		assert.True(t, f.Valid(), "tier %d", f)
	}
	assert.False(t, FeeTier(0).Valid())
	assert.False(t, FeeTier(2500).Valid())
	assert.InDelta(t, 0.05, FeeTier500.Percent(), 1e-12)
	assert.InDelta(t, 1.0, FeeTier10000.Percent(), 1e-12)
}
