package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/clockquest/clockquest/clockquest/database/repositories"
	"github.com/clockquest/clockquest/clockquest/joincodes"
)

// WorldInfo is a world plus its player count, the shape clients see.
type WorldInfo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	JoinCode    string    `json:"join_code"`
	CreatedAt   time.Time `json:"created_at"`
	PlayerCount int       `json:"player_count"`
}

// WorldService manages worlds and their join codes.
type WorldService struct {
	worlds repositories.WorldRepository
}

func NewWorldService(worlds repositories.WorldRepository) *WorldService {
	return &WorldService{worlds: worlds}
}

func worldInfo(world *models.World, playerCount int) *WorldInfo {
	return &WorldInfo{
		ID:          world.ID,
		Name:        world.Name,
		JoinCode:    world.JoinCode,
		CreatedAt:   world.CreatedAt,
		PlayerCount: playerCount,
	}
}

// Create makes a new world with a fresh unique join code. A non-empty
// PIN is stored as a SHA-256 hex digest, never in the clear.
func (s *WorldService) Create(ctx context.Context, name, pin string) (*WorldInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: world name must be 1-100 characters", ErrInvalidInput)
	}

	joinCode := joincodes.Generate()
	for {
		existing, err := s.worlds.GetByJoinCode(ctx, joinCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check join code: %w", err)
		}
		if existing == nil {
			break
		}
		joinCode = joincodes.Generate()
	}

	var pinHash string
	if pin != "" {
		digest := sha256.Sum256([]byte(pin))
		pinHash = hex.EncodeToString(digest[:])
	}

	world := &models.World{
		Name:      name,
		JoinCode:  joinCode,
		PinHash:   pinHash,
		CreatedAt: time.Now(),
	}
	if err := s.worlds.Create(ctx, world); err != nil {
		return nil, err
	}

	slog.Info("World created",
		slog.Int64("world_id", world.ID),
		slog.String("name", world.Name))

	return worldInfo(world, 0), nil
}

// JoinByCode resolves a raw join code, in any of its accepted forms, to
// the world it names.
func (s *WorldService) JoinByCode(ctx context.Context, rawCode string) (*WorldInfo, error) {
	normalized := joincodes.Normalize(rawCode)
	if normalized == "" {
		return nil, ErrWorldNotFound
	}

	world, err := s.worlds.GetByJoinCode(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up join code: %w", err)
	}
	if world == nil {
		return nil, ErrWorldNotFound
	}

	count, err := s.worlds.PlayerCount(ctx, world.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	return worldInfo(world, count), nil
}

func (s *WorldService) Get(ctx context.Context, id int64) (*WorldInfo, error) {
	world, err := s.worlds.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}
	if world == nil {
		return nil, ErrWorldNotFound
	}

	count, err := s.worlds.PlayerCount(ctx, world.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	return worldInfo(world, count), nil
}

// Delete removes a world; its players and their records cascade.
func (s *WorldService) Delete(ctx context.Context, id int64) error {
	world, err := s.worlds.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}
	if world == nil {
		return ErrWorldNotFound
	}

	return s.worlds.Delete(ctx, id)
}
