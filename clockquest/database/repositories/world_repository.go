package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type WorldRepository interface {
	Create(ctx context.Context, world *models.World) error
	GetByID(ctx context.Context, id int64) (*models.World, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.World, error)
	PlayerCount(ctx context.Context, worldID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type worldRepository struct {
	db *bun.DB
}

func NewWorldRepository(db *bun.DB) WorldRepository {
	return &worldRepository{db: db}
}

func (r *worldRepository) Create(ctx context.Context, world *models.World) error {
	_, err := r.db.NewInsert().Model(world).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	return nil
}

func (r *worldRepository) GetByID(ctx context.Context, id int64) (*models.World, error) {
	world := new(models.World)
	err := r.db.NewSelect().
		Model(world).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return world, nil
}

func (r *worldRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.World, error) {
	world := new(models.World)
	err := r.db.NewSelect().
		Model(world).
		Where("lower(join_code) = lower(?)", joinCode).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return world, nil
}

func (r *worldRepository) PlayerCount(ctx context.Context, worldID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.Player)(nil)).
		Where("world_id = ?", worldID).
		Count(ctx)
}

func (r *worldRepository) Delete(ctx context.Context, id int64) error {
	// Player rows and their children go with the world via FK cascade.
	_, err := r.db.NewDelete().
		Model((*models.World)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete world %d: %w", id, err)
	}
	return nil
}
