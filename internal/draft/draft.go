// Package draft implements the order-creation workflow: a three step draft
// that accumulates line items and finalises into a persistable order.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

// Step identifies a stage of the creation workflow.
type Step int

const (
	StepCustomer Step = iota + 1
	StepItems
	StepReview
)

// Order is an in-progress order before submission. It is not safe for
// concurrent use; the owning workflow serialises access.
type Order struct {
	CustomerName string
	TableID      int64
	Items        []entity.OrderItem
	Notes        string

	step Step
}

// New starts an empty draft at the customer step.
func New() *Order {
	return &Order{step: StepCustomer}
}

// Step returns the current workflow step.
func (d *Order) Step() Step {
	return d.step
}

// SetCustomer records the customer name and selected table.
func (d *Order) SetCustomer(name string, tableID int64) {
	d.CustomerName = strings.TrimSpace(name)
	d.TableID = tableID
}

// SetNotes records optional free-text notes.
func (d *Order) SetNotes(notes string) {
	d.Notes = strings.TrimSpace(notes)
}

// AddItem adds one unit of a menu item. A line already present for the item
// has its quantity incremented instead of being duplicated.
func (d *Order) AddItem(item *entity.MenuItem) {
	for i := range d.Items {
		if d.Items[i].MenuItemID == item.ID {
			d.Items[i].Quantity++
			return
		}
	}
	d.Items = append(d.Items, entity.OrderItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
}

// SetQuantity replaces a line's quantity. Zero or below removes the line
// entirely. Returns false when no line exists for the item.
func (d *Order) SetQuantity(menuItemID int64, quantity int) bool {
	if quantity <= 0 {
		return d.RemoveItem(menuItemID)
	}
	for i := range d.Items {
		if d.Items[i].MenuItemID == menuItemID {
			d.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem drops the line for a menu item. Returns false when absent.
func (d *Order) RemoveItem(menuItemID int64) bool {
	for i := range d.Items {
		if d.Items[i].MenuItemID == menuItemID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the draft. Submission builds from a
// clone taken under the owner's lock so concurrent edits to the live session
// cannot touch the order being finalised.
func (d *Order) Clone() *Order {
	c := *d
	c.Items = make([]entity.OrderItem, len(d.Items))
	copy(c.Items, d.Items)
	return &c
}

// Total recomputes the draft total from the current lines.
func (d *Order) Total() float64 {
	var total float64
	for _, item := range d.Items {
		total += item.Subtotal()
	}
	return total
}

// Advance moves to the next step if the current one is complete. A failed
// gate leaves the step and entered data untouched.
func (d *Order) Advance() error {
	switch d.step {
	case StepCustomer:
		if strings.TrimSpace(d.CustomerName) == "" || d.TableID == 0 {
			return errorbank.BadRequest("customer name and table selection are required")
		}
	case StepItems:
		if len(d.Items) == 0 {
			return errorbank.BadRequest("at least one item is required")
		}
	case StepReview:
		return errorbank.BadRequest("draft is already at the review step")
	}
	d.step++
	return nil
}

// Back returns to the previous step, keeping all entered data.
func (d *Order) Back() {
	if d.step > StepCustomer {
		d.step--
	}
}

// Build finalises the draft into an order. The table's display number is
// copied into the order; the total is fixed at this moment. All step gates
// are re-checked so a direct build cannot skip validation.
func (d *Order) Build(table *entity.DiningTable, now time.Time) (*entity.Order, error) {
	if strings.TrimSpace(d.CustomerName) == "" || d.TableID == 0 {
		return nil, errorbank.BadRequest("customer name and table selection are required")
	}
	if len(d.Items) == 0 {
		return nil, errorbank.BadRequest("at least one item is required")
	}
	if table == nil || table.ID != d.TableID {
		return nil, errorbank.BadRequest("selected table is not available")
	}

	items := make([]entity.OrderItem, len(d.Items))
	copy(items, d.Items)

	return &entity.Order{
		Number:       Number(now),
		CustomerName: strings.TrimSpace(d.CustomerName),
		TableNumber:  table.Number,
		Items:        items,
		TotalAmount:  d.Total(),
		Status:       entity.OrderStatusNew,
		Notes:        d.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Number derives a human-readable order number from the creation time: the
// last six digits of the millisecond timestamp. Not guaranteed unique under
// rapid concurrent creation.
func Number(now time.Time) string {
	return fmt.Sprintf("ORD-%06d", now.UnixMilli()%1_000_000)
}
