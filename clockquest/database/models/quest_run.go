package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestRun is one timed quest-mode run; its duration feeds the daily
// play-minutes and streak challenge tracks.
type QuestRun struct {
	bun.BaseModel `bun:"table:quest_runs,alias:qr"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID        int64     `bun:"player_id,notnull" json:"player_id"`
	StartedAt       time.Time `bun:"started_at,notnull" json:"started_at"`
	EndedAt         time.Time `bun:"ended_at,notnull" json:"ended_at"`
	DurationSeconds int       `bun:"duration_seconds,notnull" json:"duration_seconds"`
	Completed       bool      `bun:"completed,notnull,default:false" json:"completed"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"-"`
}

// Minutes returns the run length in minutes.
func (r *QuestRun) Minutes() float64 {
	return float64(r.DurationSeconds) / 60.0
}
