package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// MenuItem represents a dish or drink offered on the menu.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name"`
	Price       float64   `bun:"price"`
	Category    string    `bun:"category"`
	Available   bool      `bun:"available"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}
