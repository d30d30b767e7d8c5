package dto

import "time"

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// OrderResponse represents an order as exposed via transport layers.
// NextAction is the operator label for advancing the status; empty once the
// order is delivered.
type OrderResponse struct {
	ID            int64               `json:"id"`
	Number        string              `json:"number"`
	CustomerName  string              `json:"customer_name"`
	TableNumber   string              `json:"table_number"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   float64             `json:"total_amount"`
	Status        string              `json:"status"`
	NextAction    string              `json:"next_action,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	EstimatedTime int                 `json:"estimated_time,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
