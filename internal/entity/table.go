package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// DiningTable represents a physical table on the restaurant floor. Number is
// the display label shown to staff, distinct from the row identifier.
type DiningTable struct {
	bun.BaseModel `bun:"table:dining_tables"`

	ID               int64       `bun:",pk,autoincrement"`
	Number           string      `bun:"number"`
	Capacity         int         `bun:"capacity"`
	Status           TableStatus `bun:"status"`
	CurrentPartySize int         `bun:"current_party_size"`
	ReservationTime  *time.Time  `bun:"reservation_time"`
	CreatedAt        time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time   `bun:"updated_at,nullzero"`
}

// ApplyStatus moves the table into status and applies the seating side
// effects. Any move to available clears the party and reservation,
// regardless of the origin state.
func (t *DiningTable) ApplyStatus(status TableStatus, partySize *int) {
	t.Status = status

	if partySize != nil {
		t.CurrentPartySize = *partySize
	}

	if status == TableStatusAvailable {
		t.CurrentPartySize = 0
		t.ReservationTime = nil
	}
}

// ApplyReservation moves the table into reserved with a reservation time and
// party size set together.
func (t *DiningTable) ApplyReservation(at time.Time, partySize int) {
	t.Status = TableStatusReserved
	t.ReservationTime = &at
	t.CurrentPartySize = partySize
}
