package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderItem is one menu line within an order. Name and price are copied from
// the menu item at add time and never re-fetched.
type OrderItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Subtotal is the line contribution to the order total.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order represents a placed customer order. TableNumber is the display label
// of the table at creation time, not a live reference. TotalAmount is fixed
// when the order is created.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            int64       `bun:",pk,autoincrement"`
	Number        string      `bun:"number"`
	CustomerName  string      `bun:"customer_name"`
	TableNumber   string      `bun:"table_number"`
	Items         []OrderItem `bun:"items,type:jsonb"`
	TotalAmount   float64     `bun:"total_amount"`
	Status        OrderStatus `bun:"status"`
	Notes         string      `bun:"notes"`
	EstimatedTime int         `bun:"estimated_time"`
	CreatedAt     time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time   `bun:"updated_at,nullzero"`
}
