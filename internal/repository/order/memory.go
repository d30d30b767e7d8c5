package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tablewise/tablewise/internal/entity"
)

// memoryRepository keeps orders in process memory for the offline/demo mode.
type memoryRepository struct {
	mu     sync.RWMutex
	orders map[int64]entity.Order
	nextID int64
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() Repository {
	return &memoryRepository{
		orders: make(map[int64]entity.Order),
		nextID: 1,
	}
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *memoryRepository) Create(_ context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = cloneOrder(o)
	return &o, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// cloneOrder copies the line-item slice so callers cannot mutate stored state.
func cloneOrder(o entity.Order) entity.Order {
	if len(o.Items) > 0 {
		items := make([]entity.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}
