package dto

import "time"

// MenuItemResponse represents a menu item as exposed via transport layers.
type MenuItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
