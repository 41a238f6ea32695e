package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"
)

type SessionRepository interface {
	// RecordSession inserts the session and moves the player's clock
	// power in a single transaction.
	RecordSession(ctx context.Context, session *models.Session, newPower float64) error
	ListByPlayer(ctx context.Context, playerID int64) ([]*models.Session, error)
	PointsSince(ctx context.Context, playerID int64, since time.Time) (float64, error)
}

type sessionRepository struct {
	db *bun.DB
}

func NewSessionRepository(db *bun.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) RecordSession(ctx context.Context, session *models.Session, newPower float64) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(session).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		if _, err := tx.NewUpdate().
			Model((*models.Player)(nil)).
			Set("clock_power = ?", newPower).
			Where("id = ?", session.PlayerID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update player power: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record session for player %d: %w", session.PlayerID, err)
	}
	return nil
}

func (r *sessionRepository) ListByPlayer(ctx context.Context, playerID int64) ([]*models.Session, error) {
	var sessions []*models.Session
	err := r.db.NewSelect().
		Model(&sessions).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Scan(ctx)

	return sessions, err
}

func (r *sessionRepository) PointsSince(ctx context.Context, playerID int64, since time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.NewSelect().
		Model((*models.Session)(nil)).
		ColumnExpr("COALESCE(SUM(points_earned), 0)").
		Where("player_id = ?", playerID).
		Where("created_at >= ?", since).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum session points: %w", err)
	}

	return total.Float64, nil
}
