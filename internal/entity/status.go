package entity

import "fmt"

// OrderStatus is the lifecycle stage of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

// orderFlow is the only legal progression. No skipping, no going back.
var orderFlow = map[OrderStatus]OrderStatus{
	OrderStatusNew:       OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusDelivered,
}

var orderActions = map[OrderStatus]string{
	OrderStatusNew:       "Start Preparing",
	OrderStatusPreparing: "Mark Ready",
	OrderStatusReady:     "Mark Delivered",
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

// Terminal reports whether the order has reached the end of its lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered
}

// Next returns the single status that may follow s. Terminal statuses have
// no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderFlow[s]
	return next, ok
}

// CanTransition reports whether moving from s to target is allowed.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	next, ok := orderFlow[s]
	return ok && next == target
}

// Action is the operator-facing label for advancing out of s. Empty for the
// terminal status, which is rendered as completed instead.
func (s OrderStatus) Action() string {
	return orderActions[s]
}

// TableStatus is the seating state of a dining table.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

// tableQuickActions maps a table status to the transitions the floor staff is
// offered as single-click actions.
var tableQuickActions = map[TableStatus][]TableStatus{
	TableStatusAvailable: {TableStatusOccupied},
	TableStatusOccupied:  {TableStatusCleaning},
	TableStatusCleaning:  {TableStatusAvailable},
	TableStatusReserved:  {TableStatusOccupied},
}

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusCleaning:
		return true
	}
	return false
}

// QuickActions returns the statuses reachable from s via quick action.
func (s TableStatus) QuickActions() []TableStatus {
	return tableQuickActions[s]
}

// SeatsParty reports whether a party size is meaningful for s.
func (s TableStatus) SeatsParty() bool {
	return s == TableStatusOccupied || s == TableStatusReserved
}

// ParseOrderStatus validates a raw status string from a client.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// ParseTableStatus validates a raw status string from a client.
func ParseTableStatus(raw string) (TableStatus, error) {
	s := TableStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown table status %q", raw)
	}
	return s, nil
}
