package table

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
)

// memoryRepository keeps dining tables in process memory for the
// offline/demo mode.
type memoryRepository struct {
	mu     sync.RWMutex
	tables map[int64]entity.DiningTable
	nextID int64
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() Repository {
	return &memoryRepository{
		tables: make(map[int64]entity.DiningTable),
		nextID: 1,
	}
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]entity.DiningTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]entity.DiningTable, 0, len(r.tables))
	for _, t := range r.tables {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		tables = append(tables, cloneTable(t))
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*entity.DiningTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = cloneTable(t)
	return &t, nil
}

func (r *memoryRepository) Create(_ context.Context, table *entity.DiningTable) error {
	if table == nil {
		return errors.New("nil table")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	table.ID = r.nextID
	r.nextID++
	r.tables[table.ID] = cloneTable(*table)
	return nil
}

func (r *memoryRepository) UpdateSeating(_ context.Context, table *entity.DiningTable) error {
	if table == nil {
		return errors.New("nil table")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tables[table.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Status = table.Status
	stored.CurrentPartySize = table.CurrentPartySize
	stored.ReservationTime = cloneTime(table.ReservationTime)
	stored.UpdatedAt = time.Now().UTC()
	r.tables[table.ID] = stored
	table.UpdatedAt = stored.UpdatedAt
	return nil
}

func cloneTable(t entity.DiningTable) entity.DiningTable {
	t.ReservationTime = cloneTime(t.ReservationTime)
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
