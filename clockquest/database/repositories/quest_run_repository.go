package repositories

import (
	"context"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type QuestRunRepository interface {
	Create(ctx context.Context, run *models.QuestRun) error
	ListByPlayer(ctx context.Context, playerID int64) ([]*models.QuestRun, error)
}

type questRunRepository struct {
	db *bun.DB
}

func NewQuestRunRepository(db *bun.DB) QuestRunRepository {
	return &questRunRepository{db: db}
}

func (r *questRunRepository) Create(ctx context.Context, run *models.QuestRun) error {
	_, err := r.db.NewInsert().Model(run).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create quest run: %w", err)
	}
	return nil
}

func (r *questRunRepository) ListByPlayer(ctx context.Context, playerID int64) ([]*models.QuestRun, error) {
	var runs []*models.QuestRun
	err := r.db.NewSelect().
		Model(&runs).
		Where("player_id = ?", playerID).
		Order("started_at ASC").
		Scan(ctx)

	return runs, err
}
