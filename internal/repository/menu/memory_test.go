package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/tablewise/tablewise/internal/entity"
)

func seedItem(t *testing.T, repo Repository, name, category string, available bool) *entity.MenuItem {
	t.Helper()
	item := &entity.MenuItem{Name: name, Price: 10, Category: category, Available: available}
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return item
}

func TestMemoryListSortsByName(t *testing.T) {
	repo := NewMemory()
	seedItem(t, repo, "Tiramisu", "Desserts", true)
	seedItem(t, repo, "Bruschetta", "Appetizers", true)

	items, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "Bruschetta" {
		t.Fatalf("listing = %+v", items)
	}
}

func TestMemoryListFilters(t *testing.T) {
	repo := NewMemory()
	seedItem(t, repo, "Bruschetta", "Appetizers", true)
	seedItem(t, repo, "Calamari", "Appetizers", false)
	seedItem(t, repo, "Tiramisu", "Desserts", true)

	byCategory, err := repo.List(context.Background(), Filter{Category: "Appetizers"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("category filter returned %d items", len(byCategory))
	}

	available := true
	byBoth, err := repo.List(context.Background(), Filter{Category: "Appetizers", Available: &available})
	if err != nil {
		t.Fatal(err)
	}
	if len(byBoth) != 1 || byBoth[0].Name != "Bruschetta" {
		t.Fatalf("combined filter returned %+v", byBoth)
	}
}

func TestMemoryUpdate(t *testing.T) {
	repo := NewMemory()
	item := seedItem(t, repo, "Bruschetta", "Appetizers", true)

	item.Price = 7.50
	if err := repo.Update(context.Background(), item); err != nil {
		t.Fatal(err)
	}

	stored, err := repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Price != 7.50 {
		t.Fatalf("price = %.2f, want 7.50", stored.Price)
	}

	missing := &entity.MenuItem{ID: 42, Name: "Ghost"}
	if err := repo.Update(context.Background(), missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdateAvailability(t *testing.T) {
	repo := NewMemory()
	item := seedItem(t, repo, "Calamari", "Appetizers", true)

	updated, err := repo.UpdateAvailability(context.Background(), item.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Available {
		t.Fatal("item still available after update")
	}

	stored, err := repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Available {
		t.Fatal("stored item still available")
	}

	if _, err := repo.UpdateAvailability(context.Background(), 42, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	repo := NewMemory()
	item := seedItem(t, repo, "Tiramisu", "Desserts", true)

	if err := repo.Delete(context.Background(), item.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(context.Background(), item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryCategories(t *testing.T) {
	repo := NewMemory()
	seedItem(t, repo, "Tiramisu", "Desserts", true)
	seedItem(t, repo, "Panna Cotta", "Desserts", true)
	seedItem(t, repo, "Bruschetta", "Appetizers", true)
	seedItem(t, repo, "Mystery", "", true)

	categories, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Appetizers", "Desserts"}
	if len(categories) != len(want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("categories = %v, want %v", categories, want)
		}
	}
}
