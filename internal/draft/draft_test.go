package draft

import (
	"regexp"
	"testing"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

var (
	pizza = &entity.MenuItem{ID: 1, Name: "Margherita Pizza", Price: 12.00, Available: true}
	wine  = &entity.MenuItem{ID: 2, Name: "House Red", Price: 5.50, Available: true}
)

func TestAdvanceGates(t *testing.T) {
	d := New()

	if err := d.Advance(); err == nil {
		t.Fatal("advance with no customer should fail")
	}

	d.SetCustomer("J. Doe", 0)
	if err := d.Advance(); err == nil {
		t.Fatal("advance with no table should fail")
	}
	if d.Step() != StepCustomer {
		t.Fatalf("failed gate moved step to %d", d.Step())
	}

	d.SetCustomer("J. Doe", 3)
	if err := d.Advance(); err != nil {
		t.Fatalf("advance from customer step: %v", err)
	}
	if d.Step() != StepItems {
		t.Fatalf("step = %d, want %d", d.Step(), StepItems)
	}

	if err := d.Advance(); err == nil {
		t.Fatal("advance with no items should fail")
	}

	d.AddItem(pizza)
	if err := d.Advance(); err != nil {
		t.Fatalf("advance from items step: %v", err)
	}
	if d.Step() != StepReview {
		t.Fatalf("step = %d, want %d", d.Step(), StepReview)
	}

	if err := d.Advance(); err == nil {
		t.Fatal("advance past review should fail")
	}
}

func TestBackKeepsData(t *testing.T) {
	d := New()
	d.SetCustomer("J. Doe", 3)
	if err := d.Advance(); err != nil {
		t.Fatal(err)
	}
	d.AddItem(pizza)

	d.Back()

	if d.Step() != StepCustomer {
		t.Fatalf("step = %d, want %d", d.Step(), StepCustomer)
	}
	if d.CustomerName != "J. Doe" || len(d.Items) != 1 {
		t.Fatal("going back dropped entered data")
	}

	d.Back()
	if d.Step() != StepCustomer {
		t.Fatal("back below the first step should be a no-op")
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	d := New()
	d.AddItem(pizza)
	d.AddItem(pizza)
	d.AddItem(wine)

	if len(d.Items) != 2 {
		t.Fatalf("lines = %d, want 2", len(d.Items))
	}
	if d.Items[0].Quantity != 2 {
		t.Fatalf("pizza quantity = %d, want 2", d.Items[0].Quantity)
	}
	if got := d.Total(); got != 29.50 {
		t.Fatalf("total = %.2f, want 29.50", got)
	}
}

func TestSetQuantity(t *testing.T) {
	d := New()
	d.AddItem(pizza)

	if !d.SetQuantity(pizza.ID, 3) {
		t.Fatal("SetQuantity on existing line returned false")
	}
	if d.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", d.Items[0].Quantity)
	}

	if d.SetQuantity(99, 1) {
		t.Fatal("SetQuantity on absent line returned true")
	}

	// zero removes the line
	if !d.SetQuantity(pizza.ID, 0) {
		t.Fatal("SetQuantity(0) on existing line returned false")
	}
	if len(d.Items) != 0 {
		t.Fatal("zero quantity should remove the line")
	}
}

func TestRemoveItem(t *testing.T) {
	d := New()
	d.AddItem(pizza)
	d.AddItem(wine)

	if !d.RemoveItem(pizza.ID) {
		t.Fatal("RemoveItem on existing line returned false")
	}
	if len(d.Items) != 1 || d.Items[0].MenuItemID != wine.ID {
		t.Fatal("wrong line removed")
	}
	if d.RemoveItem(pizza.ID) {
		t.Fatal("RemoveItem on absent line returned true")
	}
}

func TestBuild(t *testing.T) {
	d := New()
	d.SetCustomer("  J. Doe  ", 3)
	d.SetNotes("no onions")
	d.AddItem(pizza)
	d.AddItem(pizza)
	d.AddItem(wine)

	table := &entity.DiningTable{ID: 3, Number: "7"}
	now := time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)

	order, err := d.Build(table, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if order.CustomerName != "J. Doe" {
		t.Errorf("customer = %q, want %q", order.CustomerName, "J. Doe")
	}
	if order.TableNumber != "7" {
		t.Errorf("table number = %q, want %q", order.TableNumber, "7")
	}
	if order.Status != entity.OrderStatusNew {
		t.Errorf("status = %s, want new", order.Status)
	}
	if order.TotalAmount != 29.50 {
		t.Errorf("total = %.2f, want 29.50", order.TotalAmount)
	}
	if order.Notes != "no onions" {
		t.Errorf("notes = %q", order.Notes)
	}
	if !regexp.MustCompile(`^ORD-\d{6}$`).MatchString(order.Number) {
		t.Errorf("number = %q, want ORD- plus six digits", order.Number)
	}

	// the built order owns its items
	d.Items[0].Quantity = 99
	if order.Items[0].Quantity == 99 {
		t.Error("built order shares item slice with the draft")
	}
}

func TestBuildRechecksGates(t *testing.T) {
	table := &entity.DiningTable{ID: 3, Number: "7"}
	now := time.Now()

	d := New()
	d.AddItem(pizza)
	if _, err := d.Build(table, now); err == nil {
		t.Fatal("build without customer should fail")
	}

	d = New()
	d.SetCustomer("J. Doe", 3)
	if _, err := d.Build(table, now); err == nil {
		t.Fatal("build without items should fail")
	}

	d = New()
	d.SetCustomer("J. Doe", 3)
	d.AddItem(pizza)
	if _, err := d.Build(&entity.DiningTable{ID: 9, Number: "1"}, now); err == nil {
		t.Fatal("build against a different table should fail")
	}
	if _, err := d.Build(nil, now); err == nil {
		t.Fatal("build against a nil table should fail")
	}

	if appErr := errorbank.From(mustBuildErr(d, nil, now)); appErr.Kind() != errorbank.KindBadRequest {
		t.Fatalf("kind = %s, want bad_request", appErr.Kind())
	}
}

func TestNumberFormat(t *testing.T) {
	now := time.UnixMilli(1718900000123)
	if got := Number(now); got != "ORD-000123" {
		t.Fatalf("Number = %q, want ORD-000123", got)
	}
}

func mustBuildErr(d *Order, table *entity.DiningTable, now time.Time) error {
	_, err := d.Build(table, now)
	return err
}
