package menu

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/cache"
	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	repo "github.com/tablewise/tablewise/internal/repository/menu"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

type missCache struct{}

func (missCache) Get(context.Context, string) ([]byte, error)              { return nil, cache.ErrCacheMiss }
func (missCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (missCache) Delete(context.Context, string) error                     { return nil }

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Params{
		Repository: repo.NewMemory(),
		Cache:      missCache{},
		Config:     config.Config{Cache: config.Cache{DefaultTTL: time.Minute}},
		Logger:     zap.NewNop(),
	})
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []*entity.MenuItem{
		nil,
		{Name: "   ", Price: 5},
		{Name: "Espresso", Price: -1},
	}
	for _, item := range cases {
		if err := svc.Create(ctx, item); err == nil {
			t.Errorf("create %+v: expected error", item)
		} else if kind := errorbank.From(err).Kind(); kind != errorbank.KindBadRequest {
			t.Errorf("create %+v: kind = %s, want bad_request", item, kind)
		}
	}

	item := &entity.MenuItem{Name: "Espresso", Price: 2.50, Category: "Drinks", Available: true}
	if err := svc.Create(ctx, item); err != nil {
		t.Fatal(err)
	}
	if item.ID == 0 {
		t.Fatal("create did not assign an id")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	if kind := errorbank.From(err).Kind(); kind != errorbank.KindNotFound {
		t.Fatalf("kind = %s, want not_found", kind)
	}
}

func TestSetAvailabilityReturnsUpdatedRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item := &entity.MenuItem{Name: "Espresso", Price: 2.50, Category: "Drinks", Available: true}
	if err := svc.Create(ctx, item); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.SetAvailability(ctx, item.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Available {
		t.Fatal("item still available")
	}
	if updated.Name != "Espresso" {
		t.Fatalf("returned record incomplete: %+v", updated)
	}

	if _, err := svc.SetAvailability(ctx, 99, true); err == nil {
		t.Fatal("expected not found")
	}
}

func TestCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, item := range []*entity.MenuItem{
		{Name: "Espresso", Price: 2.50, Category: "Drinks", Available: true},
		{Name: "Tiramisu", Price: 7.00, Category: "Desserts", Available: true},
		{Name: "House Red", Price: 5.50, Category: "Drinks", Available: true},
	} {
		if err := svc.Create(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	categories, err := svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0] != "Desserts" || categories[1] != "Drinks" {
		t.Fatalf("categories = %v", categories)
	}
}
