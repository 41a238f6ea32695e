package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is one finished play session. Mode is read, set or speedrun;
// difficulty matches the tier catalog's difficulty names.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID      int64     `bun:"player_id,notnull" json:"player_id"`
	Mode          string    `bun:"mode,notnull" json:"mode"`
	Difficulty    string    `bun:"difficulty,notnull" json:"difficulty"`
	Questions     int       `bun:"questions,notnull" json:"questions"`
	Correct       int       `bun:"correct,notnull" json:"correct"`
	HintsUsed     int       `bun:"hints_used,notnull,default:0" json:"hints_used"`
	MaxStreak     int       `bun:"max_streak,notnull,default:0" json:"max_streak"`
	AvgResponseMS *int      `bun:"avg_response_ms" json:"avg_response_ms,omitempty"`
	SpeedrunScore *int      `bun:"speedrun_score" json:"speedrun_score,omitempty"`
	PointsEarned  float64   `bun:"points_earned,notnull,default:0" json:"points_earned"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"-"`
}
