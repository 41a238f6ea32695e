package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/clockquest/clockquest/clockquest/database/repositories"
)

// PlayerService manages player accounts within worlds.
type PlayerService struct {
	players repositories.PlayerRepository
	worlds  repositories.WorldRepository
}

func NewPlayerService(players repositories.PlayerRepository, worlds repositories.WorldRepository) *PlayerService {
	return &PlayerService{players: players, worlds: worlds}
}

func (s *PlayerService) Create(ctx context.Context, nickname string, worldID int64) (*models.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || len(nickname) > 50 {
		return nil, fmt.Errorf("%w: nickname must be 1-50 characters", ErrInvalidInput)
	}

	world, err := s.worlds.GetByID(ctx, worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}
	if world == nil {
		return nil, ErrWorldNotFound
	}

	player := &models.Player{
		Nickname:  nickname,
		WorldID:   worldID,
		CreatedAt: time.Now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}

	slog.Info("Player created",
		slog.Int64("player_id", player.ID),
		slog.Int64("world_id", worldID),
		slog.String("nickname", nickname))

	return player, nil
}

func (s *PlayerService) Get(ctx context.Context, id int64) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

func (s *PlayerService) ListByWorld(ctx context.Context, worldID int64) ([]*models.Player, error) {
	return s.players.ListByWorld(ctx, worldID)
}

// Search ranks a world's players against the query by fuzzy nickname
// match. An empty query returns the full roster.
func (s *PlayerService) Search(ctx context.Context, worldID int64, query string) ([]*models.Player, error) {
	players, err := s.players.ListByWorld(ctx, worldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return players, nil
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Nickname
	}

	matches := fuzzy.Find(query, names)
	ranked := make([]*models.Player, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, players[m.Index])
	}
	return ranked, nil
}

func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return ErrPlayerNotFound
	}

	return s.players.Delete(ctx, id)
}
