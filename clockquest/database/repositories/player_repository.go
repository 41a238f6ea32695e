package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	ListByWorld(ctx context.Context, worldID int64) ([]*models.Player, error)
	TopByPower(ctx context.Context, worldID *int64, limit int) ([]*models.Player, error)
	UpdateProgress(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int64) error
}

type playerRepository struct {
	db *bun.DB
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *models.Player) error {
	_, err := r.db.NewInsert().Model(player).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return player, nil
}

func (r *playerRepository) ListByWorld(ctx context.Context, worldID int64) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		Where("world_id = ?", worldID).
		Order("clock_power DESC", "id ASC").
		Scan(ctx)

	return players, err
}

func (r *playerRepository) TopByPower(ctx context.Context, worldID *int64, limit int) ([]*models.Player, error) {
	var players []*models.Player
	q := r.db.NewSelect().
		Model(&players).
		Order("clock_power DESC", "id ASC").
		Limit(limit)

	if worldID != nil {
		q = q.Where("world_id = ?", *worldID)
	}

	err := q.Scan(ctx)
	return players, err
}

// UpdateProgress persists the player's clock power and current tier.
func (r *playerRepository) UpdateProgress(ctx context.Context, player *models.Player) error {
	_, err := r.db.NewUpdate().
		Model(player).
		Column("clock_power", "current_tier").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player %d progress: %w", player.ID, err)
	}
	return nil
}

func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	// Sessions, trials, quests, quest runs and seen tips cascade.
	_, err := r.db.NewDelete().
		Model((*models.Player)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}
