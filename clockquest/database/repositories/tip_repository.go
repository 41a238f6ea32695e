package repositories

import (
	"context"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type TipRepository interface {
	MarkSeen(ctx context.Context, seen *models.PlayerTipSeen) error
	SeenTipIDs(ctx context.Context, playerID int64, tierIndex int) ([]string, error)
}

type tipRepository struct {
	db *bun.DB
}

func NewTipRepository(db *bun.DB) TipRepository {
	return &tipRepository{db: db}
}

func (r *tipRepository) MarkSeen(ctx context.Context, seen *models.PlayerTipSeen) error {
	_, err := r.db.NewInsert().Model(seen).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark tip seen: %w", err)
	}
	return nil
}

func (r *tipRepository) SeenTipIDs(ctx context.Context, playerID int64, tierIndex int) ([]string, error) {
	var tipIDs []string
	err := r.db.NewSelect().
		Model((*models.PlayerTipSeen)(nil)).
		Column("tip_id").
		Where("player_id = ?", playerID).
		Where("tier_index = ?", tierIndex).
		Scan(ctx, &tipIDs)

	return tipIDs, err
}
