package repositories

import (
	"context"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type QuestRepository interface {
	GetActive(ctx context.Context, playerID int64) ([]*models.Quest, error)
	GetActiveByType(ctx context.Context, playerID int64, questType string) ([]*models.Quest, error)
	ListCompletedByType(ctx context.Context, playerID int64, questType string) ([]*models.Quest, error)
	CountCompletedByType(ctx context.Context, playerID int64, questType string) (int, error)
	Create(ctx context.Context, quest *models.Quest) error
	Update(ctx context.Context, quest *models.Quest) error
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) GetActive(ctx context.Context, playerID int64) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("player_id = ?", playerID).
		Where("completed = ?", false).
		Order("id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) GetActiveByType(ctx context.Context, playerID int64, questType string) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("player_id = ?", playerID).
		Where("quest_type = ?", questType).
		Where("completed = ?", false).
		Order("id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) ListCompletedByType(ctx context.Context, playerID int64, questType string) ([]*models.Quest, error) {
	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Where("player_id = ?", playerID).
		Where("quest_type = ?", questType).
		Where("completed = ?", true).
		Order("id ASC").
		Scan(ctx)

	return quests, err
}

func (r *questRepository) CountCompletedByType(ctx context.Context, playerID int64, questType string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Quest)(nil)).
		Where("player_id = ?", playerID).
		Where("quest_type = ?", questType).
		Where("completed = ?", true).
		Count(ctx)
}

func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	_, err := r.db.NewInsert().Model(quest).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create quest: %w", err)
	}
	return nil
}

func (r *questRepository) Update(ctx context.Context, quest *models.Quest) error {
	_, err := r.db.NewUpdate().
		Model(quest).
		Column("description", "target", "progress", "completed").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update quest %d: %w", quest.ID, err)
	}
	return nil
}
