package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
)

func seedTable(t *testing.T, repo Repository, number string, status entity.TableStatus) *entity.DiningTable {
	t.Helper()
	table := &entity.DiningTable{Number: number, Capacity: 4, Status: status}
	if err := repo.Create(context.Background(), table); err != nil {
		t.Fatalf("create table %s: %v", number, err)
	}
	return table
}

func TestMemoryListOrdersByNumber(t *testing.T) {
	repo := NewMemory()
	seedTable(t, repo, "3", entity.TableStatusAvailable)
	seedTable(t, repo, "1", entity.TableStatusAvailable)
	seedTable(t, repo, "2", entity.TableStatusOccupied)

	tables, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 3 {
		t.Fatalf("len = %d, want 3", len(tables))
	}
	for i, want := range []string{"1", "2", "3"} {
		if tables[i].Number != want {
			t.Errorf("tables[%d].Number = %s, want %s", i, tables[i].Number, want)
		}
	}
}

func TestMemoryListFiltersByStatus(t *testing.T) {
	repo := NewMemory()
	seedTable(t, repo, "1", entity.TableStatusAvailable)
	seedTable(t, repo, "2", entity.TableStatusOccupied)

	tables, err := repo.List(context.Background(), Filter{Status: entity.TableStatusAvailable})
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0].Number != "1" {
		t.Fatalf("filter returned %+v", tables)
	}
}

func TestMemoryUpdateSeating(t *testing.T) {
	repo := NewMemory()
	created := seedTable(t, repo, "1", entity.TableStatusAvailable)

	at := time.Now().Add(time.Hour).UTC()
	created.Status = entity.TableStatusReserved
	created.CurrentPartySize = 2
	created.ReservationTime = &at

	if err := repo.UpdateSeating(context.Background(), created); err != nil {
		t.Fatal(err)
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != entity.TableStatusReserved {
		t.Fatalf("status = %s, want reserved", stored.Status)
	}
	if stored.CurrentPartySize != 2 {
		t.Fatalf("party size = %d, want 2", stored.CurrentPartySize)
	}
	if stored.ReservationTime == nil || !stored.ReservationTime.Equal(at) {
		t.Fatalf("reservation time = %v, want %v", stored.ReservationTime, at)
	}
}

func TestMemoryUpdateSeatingMissing(t *testing.T) {
	repo := NewMemory()
	missing := &entity.DiningTable{ID: 42, Status: entity.TableStatusOccupied}
	if err := repo.UpdateSeating(context.Background(), missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryGetIsolatesReservationTime(t *testing.T) {
	repo := NewMemory()
	created := seedTable(t, repo, "1", entity.TableStatusAvailable)

	at := time.Now().UTC()
	created.Status = entity.TableStatusReserved
	created.ReservationTime = &at
	created.CurrentPartySize = 2
	if err := repo.UpdateSeating(context.Background(), created); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	*got.ReservationTime = got.ReservationTime.Add(24 * time.Hour)

	again, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.ReservationTime.Equal(at) {
		t.Fatal("mutating a returned table leaked into the store")
	}
}
