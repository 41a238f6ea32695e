package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Active challenge track types. Anything else is a legacy type retired
// on sight during quest generation.
const (
	QuestTypeDailyPlay   = "daily_play"
	QuestTypeDailyStreak = "daily_streak"
)

// Quest is one challenge card. At most one active card exists per
// track; completed cards form the progression history that decides the
// next goal level.
type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID    int64     `bun:"player_id,notnull" json:"player_id"`
	QuestType   string    `bun:"quest_type,notnull" json:"quest_type"`
	Description string    `bun:"description,notnull" json:"description"`
	Target      float64   `bun:"target,notnull" json:"target"`
	Progress    float64   `bun:"progress,notnull,default:0" json:"progress"`
	Completed   bool      `bun:"completed,notnull,default:false" json:"completed"`
	Mode        string    `bun:"mode" json:"mode,omitempty"`
	Difficulty  *string   `bun:"difficulty" json:"difficulty,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"-"`
}
