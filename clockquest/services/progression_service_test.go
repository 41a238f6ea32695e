package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clockquest/clockquest/clockquest/database/models"
)

type progressionFixture struct {
	players   *fakePlayerRepo
	sessions  *fakeSessionRepo
	trials    *fakeTrialRepo
	questRepo *fakeQuestRepo
	runRepo   *fakeQuestRunRepo
	tips      *fakeTipRepo
	svc       *ProgressionService
}

func newProgressionFixture(now time.Time) *progressionFixture {
	players := newFakePlayerRepo()
	sessions := newFakeSessionRepo(players)
	trials := newFakeTrialRepo(players)
	questRepo := newFakeQuestRepo()
	runRepo := newFakeQuestRunRepo()
	tips := &fakeTipRepo{}

	questSvc := NewQuestService(questRepo, runRepo, time.UTC)
	questSvc.now = func() time.Time { return now }

	svc := NewProgressionService(players, sessions, trials, runRepo, tips, questSvc)
	svc.rng = func() float64 { return 0.99 } // suppress random tips in tests

	return &progressionFixture{
		players:   players,
		sessions:  sessions,
		trials:    trials,
		questRepo: questRepo,
		runRepo:   runRepo,
		tips:      tips,
		svc:       svc,
	}
}

func TestSubmitSessionAwardsPoints(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 50, CurrentTier: 0})

	result, err := f.svc.SubmitSession(context.Background(), SessionSubmission{
		PlayerID:   player.ID,
		Mode:       "read",
		Difficulty: "hour",
		Questions:  10,
		Correct:    7,
		MaxStreak:  3,
	})
	require.NoError(t, err)

	require.Equal(t, 12.0, result.PointsEarned)
	require.Equal(t, 62.0, result.NewClockPower)
	require.Equal(t, 0, result.NewTier)
	require.False(t, result.TierUp)
	require.Len(t, result.ChallengeUpdates, 2)
	require.Len(t, f.sessions.sessions, 1)
}

func TestSubmitSessionClampsAtTierCeiling(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 95, CurrentTier: 0})

	result, err := f.svc.SubmitSession(context.Background(), SessionSubmission{
		PlayerID:   player.ID,
		Mode:       "read",
		Difficulty: "hour",
		Questions:  10,
		Correct:    10,
		MaxStreak:  10,
	})
	require.NoError(t, err)

	require.Equal(t, 5.0, result.PointsEarned)
	require.Equal(t, 100.0, result.NewClockPower, "power stops at the tier ceiling")
}

func TestSubmitSessionValidation(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1})

	tests := []struct {
		name string
		data SessionSubmission
		want error
	}{
		{
			name: "unknown player",
			data: SessionSubmission{PlayerID: 999, Questions: 10, Correct: 5},
			want: ErrPlayerNotFound,
		},
		{
			name: "correct exceeds questions",
			data: SessionSubmission{PlayerID: player.ID, Questions: 10, Correct: 11},
			want: ErrInvalidInput,
		},
		{
			name: "zero questions",
			data: SessionSubmission{PlayerID: player.ID, Questions: 0},
			want: ErrInvalidInput,
		},
		{
			name: "negative hints",
			data: SessionSubmission{PlayerID: player.ID, Questions: 10, Correct: 5, HintsUsed: -1},
			want: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitSession(context.Background(), tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitTrialPassAdvancesTier(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 100, CurrentTier: 0})

	result, err := f.svc.SubmitTrial(context.Background(), TrialSubmission{
		PlayerID:  player.ID,
		Tier:      1,
		Questions: 10,
		Correct:   9,
		HintsUsed: 2,
	})
	require.NoError(t, err)

	require.True(t, result.Passed)
	require.Equal(t, 1, result.Player.CurrentTier)
	require.Equal(t, "Stone", result.TierName)
	require.Equal(t, "You unlocked Stone!", result.Message)
	require.Len(t, f.trials.trials, 1)
	require.True(t, f.trials.trials[0].Passed)
}

func TestSubmitTrialFailKeepsTier(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 100, CurrentTier: 0})

	result, err := f.svc.SubmitTrial(context.Background(), TrialSubmission{
		PlayerID:  player.ID,
		Tier:      1,
		Questions: 10,
		Correct:   7,
	})
	require.NoError(t, err)

	require.False(t, result.Passed)
	require.Equal(t, 0, result.Player.CurrentTier)
	require.Equal(t, "Not quite! You needed 9/10 correct. Keep practising!", result.Message)
	// Failed attempts are still recorded for the audit trail.
	require.Len(t, f.trials.trials, 1)
	require.False(t, f.trials.trials[0].Passed)
}

func TestSubmitTrialGates(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 100, CurrentTier: 0})

	// Skipping ahead is rejected.
	_, err := f.svc.SubmitTrial(context.Background(), TrialSubmission{
		PlayerID: player.ID, Tier: 2, Questions: 10, Correct: 10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Not enough clock power for the next tier's floor.
	weak := f.players.add(&models.Player{Nickname: "Bo", WorldID: 1, ClockPower: 80, CurrentTier: 0})
	_, err = f.svc.SubmitTrial(context.Background(), TrialSubmission{
		PlayerID: weak.ID, Tier: 1, Questions: 10, Correct: 10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Empty(t, f.trials.trials, "gated attempts leave no audit row")
}

func TestGetBriefing(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 150, CurrentTier: 1})

	briefing, err := f.svc.GetBriefing(context.Background(), player.ID)
	require.NoError(t, err)

	require.Equal(t, "Stone", briefing.TierName)
	require.Equal(t, "#808080", briefing.TierColor)
	require.NotNil(t, briefing.NextTierName)
	require.Equal(t, "Coal", *briefing.NextTierName)
	require.NotNil(t, briefing.NextTierThreshold)
	require.Equal(t, 200, *briefing.NextTierThreshold)
	// 150 power in the 100-199 band: halfway.
	require.Equal(t, 50.0, briefing.TierProgressPct)
	require.Equal(t, []string{"Reads hours on the clock"}, briefing.MasteredSkills)
	require.Len(t, briefing.Challenges, 2)
	require.Nil(t, briefing.Tip)
}

func TestGetBriefingTopTier(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 1000, CurrentTier: 10})

	briefing, err := f.svc.GetBriefing(context.Background(), player.ID)
	require.NoError(t, err)

	require.Equal(t, "Clock Master", briefing.TierName)
	require.Nil(t, briefing.NextTierName)
	require.Nil(t, briefing.NextTierThreshold)
	require.Equal(t, 100.0, briefing.TierProgressPct)
}

func TestGetBriefingTipPrefersUnseen(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 10, CurrentTier: 0})
	f.svc.rng = func() float64 { return 0.0 } // always roll a tip, pick first

	require.NoError(t, f.svc.MarkTipSeen(context.Background(), player.ID, 0, "wood_focus"))

	briefing, err := f.svc.GetBriefing(context.Background(), player.ID)
	require.NoError(t, err)
	require.NotNil(t, briefing.Tip)
	require.Equal(t, "wood_hint", briefing.Tip.ID)
}

func TestTrialConfigLookup(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)

	info, err := f.svc.TrialConfig(1)
	require.NoError(t, err)
	require.Equal(t, "Stone", info.TierName)
	require.Equal(t, 9, info.MinCorrect)

	for _, tier := range []int{0, -1, 11} {
		_, err := f.svc.TrialConfig(tier)
		require.ErrorIs(t, err, ErrNoTrial)
	}
}

func TestRecordQuestRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := newProgressionFixture(now)
	player := f.players.add(&models.Player{Nickname: "Ada", WorldID: 1})

	run, err := f.svc.RecordQuestRun(context.Background(), QuestRunSubmission{
		PlayerID:        player.ID,
		StartedAt:       now.Add(-10 * time.Minute),
		EndedAt:         now,
		DurationSeconds: 600,
		Completed:       true,
	})
	require.NoError(t, err)
	require.Equal(t, 10.0, run.Minutes())

	_, err = f.svc.RecordQuestRun(context.Background(), QuestRunSubmission{
		PlayerID:        player.ID,
		StartedAt:       now,
		EndedAt:         now.Add(-time.Minute),
		DurationSeconds: 60,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.RecordQuestRun(context.Background(), QuestRunSubmission{
		PlayerID:        player.ID,
		StartedAt:       now,
		EndedAt:         now,
		DurationSeconds: -5,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
