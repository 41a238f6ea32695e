package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TierTrial is the audit record of a trial attempt, pass or fail.
type TierTrial struct {
	bun.BaseModel `bun:"table:tier_trials,alias:tt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID  int64     `bun:"player_id,notnull" json:"player_id"`
	Tier      int       `bun:"tier,notnull" json:"tier"`
	Passed    bool      `bun:"passed,notnull" json:"passed"`
	Questions int       `bun:"questions,notnull" json:"questions"`
	Correct   int       `bun:"correct,notnull" json:"correct"`
	HintsUsed int       `bun:"hints_used,notnull,default:0" json:"hints_used"`
	TimeMS    *int      `bun:"time_ms" json:"time_ms,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"-"`
}
