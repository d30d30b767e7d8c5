package order

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/cache"
	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/messaging"
	menurepo "github.com/tablewise/tablewise/internal/repository/menu"
	repo "github.com/tablewise/tablewise/internal/repository/order"
	tablerepo "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

type missCache struct{}

func (missCache) Get(context.Context, string) ([]byte, error) { return nil, cache.ErrCacheMiss }
func (missCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (missCache) Delete(context.Context, string) error { return nil }

type capturePublisher struct {
	mu     sync.Mutex
	events [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, _ []byte, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, append([]byte(nil), value...))
	return nil
}

func (p *capturePublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (p *capturePublisher) Topic() string { return "foh.events" }

func (p *capturePublisher) published(t *testing.T) []OrderEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OrderEvent, 0, len(p.events))
	for _, raw := range p.events {
		var event OrderEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		out = append(out, event)
	}
	return out
}

type fixture struct {
	svc       *Service
	orders    repo.Repository
	menu      menurepo.Repository
	tables    tablerepo.Repository
	publisher *capturePublisher

	pizzaID, wineID int64
	tableID         int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	menuRepo := menurepo.NewMemory()
	pizza := &entity.MenuItem{Name: "Margherita Pizza", Price: 12.00, Category: "Mains", Available: true}
	wine := &entity.MenuItem{Name: "House Red", Price: 5.50, Category: "Drinks", Available: true}
	for _, item := range []*entity.MenuItem{pizza, wine} {
		if err := menuRepo.Create(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	tableRepo := tablerepo.NewMemory()
	table := &entity.DiningTable{Number: "4", Capacity: 4, Status: entity.TableStatusAvailable}
	if err := tableRepo.Create(ctx, table); err != nil {
		t.Fatal(err)
	}

	publisher := &capturePublisher{}
	cfg := config.Config{
		Cache: config.Cache{DefaultTTL: time.Minute},
		Messaging: config.Messaging{
			Enabled: true,
			Kafka:   config.Kafka{Topic: "foh.events"},
		},
	}

	svc := NewService(Params{
		Repository:      repo.NewMemory(),
		MenuRepository:  menuRepo,
		TableRepository: tableRepo,
		Cache:           missCache{},
		Config:          cfg,
		Logger:          zap.NewNop(),
		Publisher:       publisher,
	})

	return &fixture{
		svc:       svc,
		orders:    svc.repo,
		menu:      menuRepo,
		tables:    tableRepo,
		publisher: publisher,
		pizzaID:   pizza.ID,
		wineID:    wine.ID,
		tableID:   table.ID,
	}
}

func (f *fixture) createOrder(t *testing.T) *entity.Order {
	t.Helper()
	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerName: "J. Doe",
		TableID:      f.tableID,
		Items: []CreateItemInput{
			{MenuItemID: f.pizzaID, Quantity: 2},
			{MenuItemID: f.wineID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t)

	if order.Status != entity.OrderStatusNew {
		t.Errorf("status = %s, want new", order.Status)
	}
	if order.TotalAmount != 29.50 {
		t.Errorf("total = %.2f, want 29.50", order.TotalAmount)
	}
	if order.TableNumber != "4" {
		t.Errorf("table number = %q, want 4", order.TableNumber)
	}
	if !regexp.MustCompile(`^ORD-\d{6}$`).MatchString(order.Number) {
		t.Errorf("number = %q", order.Number)
	}

	events := f.publisher.published(t)
	if len(events) != 1 || events[0].Type != "order.created" {
		t.Fatalf("events = %+v, want one order.created", events)
	}
}

func TestCreateRejectsMissingItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerName: "J. Doe",
		TableID:      f.tableID,
		Items:        []CreateItemInput{{MenuItemID: 99, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := errorbank.From(err).Kind(); kind != errorbank.KindBadRequest {
		t.Fatalf("kind = %s, want bad_request", kind)
	}
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	for _, quantity := range []int{0, -1} {
		_, err := f.svc.Create(context.Background(), CreateInput{
			CustomerName: "J. Doe",
			TableID:      f.tableID,
			Items:        []CreateItemInput{{MenuItemID: f.pizzaID, Quantity: quantity}},
		})
		if err == nil {
			t.Fatalf("quantity %d: expected error", quantity)
		}
		if kind := errorbank.From(err).Kind(); kind != errorbank.KindBadRequest {
			t.Fatalf("quantity %d: kind = %s, want bad_request", quantity, kind)
		}
	}
}

func TestCreateRejectsUnavailableItem(t *testing.T) {
	f := newFixture(t)
	if _, err := f.menu.UpdateAvailability(context.Background(), f.pizzaID, false); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerName: "J. Doe",
		TableID:      f.tableID,
		Items:        []CreateItemInput{{MenuItemID: f.pizzaID, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := errorbank.From(err).Kind(); kind != errorbank.KindUnprocessableEntity {
		t.Fatalf("kind = %s, want unprocessable_entity", kind)
	}
}

func TestCreateRejectsOccupiedTable(t *testing.T) {
	f := newFixture(t)
	table, err := f.tables.GetByID(context.Background(), f.tableID)
	if err != nil {
		t.Fatal(err)
	}
	party := 2
	table.ApplyStatus(entity.TableStatusOccupied, &party)
	if err := f.tables.UpdateSeating(context.Background(), table); err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.Create(context.Background(), CreateInput{
		CustomerName: "J. Doe",
		TableID:      f.tableID,
		Items:        []CreateItemInput{{MenuItemID: f.pizzaID, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := errorbank.From(err).Kind(); kind != errorbank.KindConflict {
		t.Fatalf("kind = %s, want conflict", kind)
	}
}

func TestAdvanceWalksLifecycle(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	want := []entity.OrderStatus{
		entity.OrderStatusPreparing,
		entity.OrderStatusReady,
		entity.OrderStatusDelivered,
	}
	for _, status := range want {
		updated, err := f.svc.Advance(context.Background(), order.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status = %s, want %s", updated.Status, status)
		}
	}

	if _, err := f.svc.Advance(context.Background(), order.ID); err == nil {
		t.Fatal("advancing a delivered order should fail")
	} else if kind := errorbank.From(err).Kind(); kind != errorbank.KindInvalidTransition {
		t.Fatalf("kind = %s, want invalid_transition", kind)
	}

	// order.created plus three status changes
	events := f.publisher.published(t)
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	for _, event := range events[1:] {
		if event.Type != "order.status_changed" {
			t.Fatalf("event type = %s, want order.status_changed", event.Type)
		}
	}
}

func TestUpdateStatusRejectsSkipsAndBackwards(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	for _, target := range []entity.OrderStatus{entity.OrderStatusReady, entity.OrderStatusDelivered} {
		if _, err := f.svc.UpdateStatus(context.Background(), order.ID, target); err == nil {
			t.Fatalf("skip to %s should fail", target)
		} else if kind := errorbank.From(err).Kind(); kind != errorbank.KindInvalidTransition {
			t.Fatalf("kind = %s, want invalid_transition", kind)
		}
	}

	if _, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.OrderStatusPreparing); err != nil {
		t.Fatalf("legal transition failed: %v", err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.OrderStatusNew); err == nil {
		t.Fatal("going back to new should fail")
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 42, entity.OrderStatusPreparing)
	if kind := errorbank.From(err).Kind(); kind != errorbank.KindNotFound {
		t.Fatalf("kind = %s, want not_found", kind)
	}
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	if err := f.svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Get(context.Background(), order.ID); err == nil {
		t.Fatal("deleted order still readable")
	}
}
