package dto

import "time"

// TableResponse represents a dining table as exposed via transport layers.
// QuickActions lists the statuses reachable from the current one via a
// single floor-staff action.
type TableResponse struct {
	ID               int64      `json:"id"`
	Number           string     `json:"number"`
	Capacity         int        `json:"capacity"`
	Status           string     `json:"status"`
	CurrentPartySize int        `json:"current_party_size"`
	ReservationTime  *time.Time `json:"reservation_time,omitempty"`
	QuickActions     []string   `json:"quick_actions"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
