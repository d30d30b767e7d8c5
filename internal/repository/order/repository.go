package order

import (
	"context"
	"errors"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/database"
	"github.com/tablewise/tablewise/internal/entity"
)

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Filter narrows an order listing. Zero values match everything.
type Filter struct {
	Status entity.OrderStatus
}

// Repository encapsulates read/write access for orders. Listings are newest
// first. UpdateStatus writes only the status field and returns the record as
// stored afterwards.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]entity.Order, error)
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id int64) error
}

// New selects the repository implementation for the configured store driver.
func New(cfg config.Config, conns *database.Connections) Repository {
	if cfg.Database.Driver == "memory" {
		return NewMemory()
	}
	return NewBun(conns)
}
