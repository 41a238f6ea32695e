package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogContiguity(t *testing.T) {
	require.Len(t, Tiers, 11)
	require.Equal(t, 0, Tiers[0].MinPower)
	for i := 1; i < len(Tiers); i++ {
		require.Equal(t, Tiers[i-1].MaxPower+1, Tiers[i].MinPower, "gap before tier %d", i)
	}
	require.Equal(t, AbsoluteMaxPower, Tiers[MaxTier].MaxPower)
}

func TestGetTierClamps(t *testing.T) {
	require.Equal(t, "Wood", GetTier(-3).Name)
	require.Equal(t, "Clock Master", GetTier(99).Name)
	require.Equal(t, "Gold", GetTier(4).Name)
}

func TestTierCeiling(t *testing.T) {
	require.Equal(t, 100, TierCeiling(0))
	require.Equal(t, 500, TierCeiling(4))
	// Top tier's ceiling collapses to the absolute cap.
	require.Equal(t, 1000, TierCeiling(MaxTier))
	require.Equal(t, 1000, TierCeiling(MaxTier+5))
}

func TestMasteredSkills(t *testing.T) {
	require.Empty(t, MasteredSkills(0))

	got := MasteredSkills(2)
	require.Equal(t, []string{"Reads hours on the clock", "Reads half past / half to"}, got)

	require.Len(t, MasteredSkills(MaxTier), 10)
}

func TestTrialConfigFor(t *testing.T) {
	require.Nil(t, TrialConfigFor(0))
	require.Nil(t, TrialConfigFor(-1))
	require.Nil(t, TrialConfigFor(MaxTier+1))

	stone := TrialConfigFor(1)
	require.NotNil(t, stone)
	require.Equal(t, 1, stone.Tier)
	require.Equal(t, "Stone", stone.TierName)
	require.Equal(t, "hour", stone.Difficulty)
	require.Equal(t, 10, stone.Questions)
	require.Equal(t, 9, stone.MinCorrect)
	require.False(t, stone.SpeedGate)

	master := TrialConfigFor(MaxTier)
	require.NotNil(t, master)
	require.True(t, master.SpeedGate)
	require.Equal(t, 0, master.MaxHints)
}

func TestTrialDefinitionsCoverAllButWood(t *testing.T) {
	defs := TrialDefinitions()
	require.Len(t, defs, 10)
	_, hasWood := defs[0]
	require.False(t, hasWood)
}

func TestQuestRunMixSumsToOne(t *testing.T) {
	for _, tier := range Tiers {
		var runSum, fmtSum float64
		for _, v := range tier.QuestRunMix {
			runSum += v
		}
		for _, v := range tier.TimeFormatMix {
			fmtSum += v
		}
		require.InDelta(t, 1.0, runSum, 1e-9, "quest run mix at tier %d", tier.Index)
		require.InDelta(t, 1.0, fmtSum, 1e-9, "time format mix at tier %d", tier.Index)
	}
}
