package services

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/clockquest/clockquest/clockquest/database/repositories"
	"github.com/clockquest/clockquest/clockquest/progression"
)

const (
	leaderboardLimit    = 100
	leaderboardCacheTTL = 30 * time.Second
	leaderboardCacheCap = 64
	maxConcurrentSums   = 8
	weeklyWindow        = 7 * 24 * time.Hour
)

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	PlayerID    int64   `json:"player_id"`
	Nickname    string  `json:"nickname"`
	ClockPower  float64 `json:"clock_power"`
	CurrentTier int     `json:"current_tier"`
	TierName    string  `json:"tier_name"`
	WeeklyGain  float64 `json:"weekly_gain"`
}

// LeaderboardResponse is the ranked top players for a scope.
type LeaderboardResponse struct {
	Scope   string             `json:"scope"`
	Entries []LeaderboardEntry `json:"entries"`
}

type cachedLeaderboard struct {
	response  *LeaderboardResponse
	timestamp time.Time
}

// LeaderboardService ranks players by clock power. Weekly gains are
// summed per player concurrently, and responses are cached briefly
// since the board is read far more often than it changes.
type LeaderboardService struct {
	players  repositories.PlayerRepository
	sessions repositories.SessionRepository
	cache    *lru.Cache
	sem      *semaphore.Weighted
	now      func() time.Time
}

func NewLeaderboardService(players repositories.PlayerRepository, sessions repositories.SessionRepository) *LeaderboardService {
	cache, _ := lru.New(leaderboardCacheCap)
	return &LeaderboardService{
		players:  players,
		sessions: sessions,
		cache:    cache,
		sem:      semaphore.NewWeighted(maxConcurrentSums),
		now:      time.Now,
	}
}

func cacheKey(scope string, worldID *int64) string {
	if scope == "world" && worldID != nil {
		return fmt.Sprintf("world:%d", *worldID)
	}
	return "global"
}

// Get returns the top players for the scope, which is "global" or
// "world" (the latter with a world id).
func (s *LeaderboardService) Get(ctx context.Context, scope string, worldID *int64) (*LeaderboardResponse, error) {
	if scope != "global" && scope != "world" {
		return nil, fmt.Errorf("%w: scope must be global or world", ErrInvalidInput)
	}

	key := cacheKey(scope, worldID)
	if v, ok := s.cache.Get(key); ok {
		cached := v.(cachedLeaderboard)
		if s.now().Sub(cached.timestamp) < leaderboardCacheTTL {
			return cached.response, nil
		}
	}

	var filter *int64
	if scope == "world" {
		filter = worldID
	}

	players, err := s.players.TopByPower(ctx, filter, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard players: %w", err)
	}

	weekAgo := s.now().Add(-weeklyWindow)
	gains := make([]float64, len(players))

	g, ctx := errgroup.WithContext(ctx)
	for i, player := range players {
		i, player := i, player
		g.Go(func() error {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer s.sem.Release(1)

			points, err := s.sessions.PointsSince(ctx, player.ID, weekAgo)
			if err != nil {
				return fmt.Errorf("failed to sum weekly points for player %d: %w", player.ID, err)
			}
			gains[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, player := range players {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			PlayerID:    player.ID,
			Nickname:    player.Nickname,
			ClockPower:  player.ClockPower,
			CurrentTier: player.CurrentTier,
			TierName:    progression.TierName(player.CurrentTier),
			WeeklyGain:  round1(gains[i]),
		}
	}

	response := &LeaderboardResponse{Scope: scope, Entries: entries}
	s.cache.Add(key, cachedLeaderboard{response: response, timestamp: s.now()})
	return response, nil
}
