package dto

// DraftResponse represents an in-progress order draft session.
type DraftResponse struct {
	ID           string              `json:"id"`
	Step         int                 `json:"step"`
	CustomerName string              `json:"customer_name"`
	TableID      int64               `json:"table_id,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	Total        float64             `json:"total"`
	Notes        string              `json:"notes,omitempty"`
}

// DraftStartResponse is returned when a workflow begins: the new draft plus
// the candidate tables, menu items, and categories loaded for it.
type DraftStartResponse struct {
	Draft           DraftResponse      `json:"draft"`
	AvailableTables []TableResponse    `json:"available_tables"`
	MenuItems       []MenuItemResponse `json:"menu_items"`
	Categories      []string           `json:"categories"`
}
