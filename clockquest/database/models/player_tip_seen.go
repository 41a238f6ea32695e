package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PlayerTipSeen records that a player has seen a character tip, so the
// briefing can prefer unseen tips from the tier pool.
type PlayerTipSeen struct {
	bun.BaseModel `bun:"table:player_tip_seen,alias:pts"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID  int64     `bun:"player_id,notnull" json:"player_id"`
	TierIndex int       `bun:"tier_index,notnull" json:"tier_index"`
	TipID     string    `bun:"tip_id,notnull" json:"tip_id"`
	SeenAt    time.Time `bun:"seen_at,notnull,default:current_timestamp" json:"seen_at"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"-"`
}
