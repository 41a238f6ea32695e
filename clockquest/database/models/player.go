package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Nickname    string    `bun:"nickname,notnull" json:"nickname"`
	WorldID     int64     `bun:"world_id,notnull" json:"world_id"`
	ClockPower  float64   `bun:"clock_power,notnull,default:0" json:"clock_power"`
	CurrentTier int       `bun:"current_tier,notnull,default:0" json:"current_tier"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	World *World `bun:"rel:belongs-to,join:world_id=id" json:"-"`
}
