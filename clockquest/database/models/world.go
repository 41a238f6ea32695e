package models

import (
	"time"

	"github.com/uptrace/bun"
)

type World struct {
	bun.BaseModel `bun:"table:worlds,alias:w"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	JoinCode  string    `bun:"join_code,notnull,unique" json:"join_code"`
	PinHash   string    `bun:"pin_hash" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// HasPin reports whether joining this world requires a PIN.
func (w *World) HasPin() bool {
	return w.PinHash != ""
}
