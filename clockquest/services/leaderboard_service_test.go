package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clockquest/clockquest/clockquest/database/models"
)

func seedLeaderboard(now time.Time) (*LeaderboardService, *fakePlayerRepo, *fakeSessionRepo) {
	players := newFakePlayerRepo()
	sessions := newFakeSessionRepo(players)

	players.add(&models.Player{Nickname: "Ada", WorldID: 1, ClockPower: 320, CurrentTier: 3})
	players.add(&models.Player{Nickname: "Bo", WorldID: 1, ClockPower: 150, CurrentTier: 1})
	players.add(&models.Player{Nickname: "Cleo", WorldID: 2, ClockPower: 480, CurrentTier: 4})

	// Recent and stale sessions for Ada.
	sessions.sessions = append(sessions.sessions,
		&models.Session{PlayerID: 1, PointsEarned: 12.5, CreatedAt: now.Add(-24 * time.Hour)},
		&models.Session{PlayerID: 1, PointsEarned: 8.0, CreatedAt: now.Add(-2 * time.Hour)},
		&models.Session{PlayerID: 1, PointsEarned: 99.0, CreatedAt: now.Add(-8 * 24 * time.Hour)},
	)

	svc := NewLeaderboardService(players, sessions)
	svc.now = func() time.Time { return now }
	return svc, players, sessions
}

func TestLeaderboardGlobal(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc, _, _ := seedLeaderboard(now)

	resp, err := svc.Get(context.Background(), "global", nil)
	require.NoError(t, err)

	require.Equal(t, "global", resp.Scope)
	require.Len(t, resp.Entries, 3)
	require.Equal(t, "Cleo", resp.Entries[0].Nickname)
	require.Equal(t, 1, resp.Entries[0].Rank)
	require.Equal(t, "Gold", resp.Entries[0].TierName)

	// Ada's weekly gain counts only the last seven days.
	require.Equal(t, "Ada", resp.Entries[1].Nickname)
	require.Equal(t, 20.5, resp.Entries[1].WeeklyGain)
}

func TestLeaderboardWorldScope(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc, _, _ := seedLeaderboard(now)

	worldID := int64(1)
	resp, err := svc.Get(context.Background(), "world", &worldID)
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	for _, e := range resp.Entries {
		require.NotEqual(t, "Cleo", e.Nickname)
	}
}

func TestLeaderboardRejectsUnknownScope(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc, _, _ := seedLeaderboard(now)

	_, err := svc.Get(context.Background(), "galaxy", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLeaderboardCachesWithinTTL(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc, players, _ := seedLeaderboard(now)

	first, err := svc.Get(context.Background(), "global", nil)
	require.NoError(t, err)

	// A new top player does not appear until the cache expires.
	players.add(&models.Player{Nickname: "Zed", WorldID: 1, ClockPower: 900, CurrentTier: 9})

	cached, err := svc.Get(context.Background(), "global", nil)
	require.NoError(t, err)
	require.Equal(t, first, cached)

	svc.now = func() time.Time { return now.Add(leaderboardCacheTTL + time.Second) }
	fresh, err := svc.Get(context.Background(), "global", nil)
	require.NoError(t, err)
	require.Equal(t, "Zed", fresh.Entries[0].Nickname)
}
