package menu

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
)

// memoryRepository keeps menu items in process memory. It backs the offline
// and demo modes and is constructed fresh per process (or per test case).
type memoryRepository struct {
	mu     sync.RWMutex
	items  map[int64]entity.MenuItem
	nextID int64
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() Repository {
	return &memoryRepository{
		items:  make(map[int64]entity.MenuItem),
		nextID: 1,
	}
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]entity.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entity.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Available != nil && item.Available != *filter.Available {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*entity.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memoryRepository) Create(_ context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepository) Update(_ context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepository) UpdateAvailability(_ context.Context, id int64, available bool) (*entity.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Available = available
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return &item, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, item := range r.items {
		if item.Category != "" {
			seen[item.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}
