package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type TrialRepository interface {
	// RecordTrial inserts the audit row and, when the attempt passed,
	// advances the player to the unlocked tier in the same transaction.
	RecordTrial(ctx context.Context, trial *models.TierTrial) error
	ListByPlayer(ctx context.Context, playerID int64) ([]*models.TierTrial, error)
}

type trialRepository struct {
	db *bun.DB
}

func NewTrialRepository(db *bun.DB) TrialRepository {
	return &trialRepository{db: db}
}

func (r *trialRepository) RecordTrial(ctx context.Context, trial *models.TierTrial) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(trial).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert trial: %w", err)
		}

		if !trial.Passed {
			return nil
		}

		if _, err := tx.NewUpdate().
			Model((*models.Player)(nil)).
			Set("current_tier = ?", trial.Tier).
			Where("id = ?", trial.PlayerID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to advance player tier: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record trial for player %d: %w", trial.PlayerID, err)
	}
	return nil
}

func (r *trialRepository) ListByPlayer(ctx context.Context, playerID int64) ([]*models.TierTrial, error) {
	var trials []*models.TierTrial
	err := r.db.NewSelect().
		Model(&trials).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Scan(ctx)

	return trials, err
}
