package table

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/messaging"
	repo "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

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

func newTestService(t *testing.T) (*Service, repo.Repository, *capturePublisher, int64) {
	t.Helper()

	tables := repo.NewMemory()
	table := &entity.DiningTable{Number: "4", Capacity: 4, Status: entity.TableStatusAvailable}
	if err := tables.Create(context.Background(), table); err != nil {
		t.Fatal(err)
	}

	publisher := &capturePublisher{}
	svc := NewService(Params{
		Repository: tables,
		Config: config.Config{
			Messaging: config.Messaging{
				Enabled: true,
				Kafka:   config.Kafka{Topic: "foh.events"},
			},
		},
		Logger:    zap.NewNop(),
		Publisher: publisher,
	})

	return svc, tables, publisher, table.ID
}

func TestUpdateStatusOccupiesTable(t *testing.T) {
	svc, _, publisher, id := newTestService(t)

	party := 3
	updated, err := svc.UpdateStatus(context.Background(), id, entity.TableStatusOccupied, &party)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != entity.TableStatusOccupied {
		t.Fatalf("status = %s, want occupied", updated.Status)
	}
	if updated.CurrentPartySize != 3 {
		t.Fatalf("party size = %d, want 3", updated.CurrentPartySize)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.events) != 1 {
		t.Fatalf("events = %d, want 1", len(publisher.events))
	}
	var event TableStatusChangedEvent
	if err := json.Unmarshal(publisher.events[0], &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != "table.status_changed" || event.Status != entity.TableStatusOccupied {
		t.Fatalf("event = %+v", event)
	}
}

func TestUpdateStatusCleaningKeepsParty(t *testing.T) {
	svc, _, _, id := newTestService(t)
	ctx := context.Background()

	party := 4
	if _, err := svc.UpdateStatus(ctx, id, entity.TableStatusOccupied, &party); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateStatus(ctx, id, entity.TableStatusCleaning, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentPartySize != 4 {
		t.Fatalf("party size = %d, want 4 (unchanged)", updated.CurrentPartySize)
	}
}

func TestUpdateStatusAvailableClearsSeating(t *testing.T) {
	svc, tables, _, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, id, time.Now().Add(time.Hour), 2); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateStatus(ctx, id, entity.TableStatusAvailable, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentPartySize != 0 || updated.ReservationTime != nil {
		t.Fatalf("seating not cleared: %+v", updated)
	}

	stored, err := tables.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.CurrentPartySize != 0 || stored.ReservationTime != nil {
		t.Fatalf("stored seating not cleared: %+v", stored)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, _, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, id, "closed", nil); err == nil {
		t.Fatal("unknown status should fail")
	} else if kind := errorbank.From(err).Kind(); kind != errorbank.KindBadRequest {
		t.Fatalf("kind = %s, want bad_request", kind)
	}

	negative := -1
	if _, err := svc.UpdateStatus(ctx, id, entity.TableStatusOccupied, &negative); err == nil {
		t.Fatal("negative party size should fail")
	}

	if _, err := svc.UpdateStatus(ctx, 42, entity.TableStatusOccupied, nil); err == nil {
		t.Fatal("unknown table should fail")
	} else if kind := errorbank.From(err).Kind(); kind != errorbank.KindNotFound {
		t.Fatalf("kind = %s, want not_found", kind)
	}
}

func TestReserve(t *testing.T) {
	svc, _, _, id := newTestService(t)
	at := time.Date(2025, 6, 20, 19, 30, 0, 0, time.UTC)

	updated, err := svc.Reserve(context.Background(), id, at, 2)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != entity.TableStatusReserved {
		t.Fatalf("status = %s, want reserved", updated.Status)
	}
	if updated.ReservationTime == nil || !updated.ReservationTime.Equal(at) {
		t.Fatalf("reservation time = %v, want %v", updated.ReservationTime, at)
	}
	if updated.CurrentPartySize != 2 {
		t.Fatalf("party size = %d, want 2", updated.CurrentPartySize)
	}
}

func TestReserveRequiresPartySize(t *testing.T) {
	svc, _, _, id := newTestService(t)

	if _, err := svc.Reserve(context.Background(), id, time.Now().Add(time.Hour), 0); err == nil {
		t.Fatal("reserve without a party size should fail")
	}
}

func TestAvailable(t *testing.T) {
	svc, tables, _, id := newTestService(t)
	ctx := context.Background()

	second := &entity.DiningTable{Number: "5", Capacity: 2, Status: entity.TableStatusAvailable}
	if err := tables.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	party := 2
	if _, err := svc.UpdateStatus(ctx, id, entity.TableStatusOccupied, &party); err != nil {
		t.Fatal(err)
	}

	open, err := svc.Available(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].Number != "5" {
		t.Fatalf("available = %+v", open)
	}
}
