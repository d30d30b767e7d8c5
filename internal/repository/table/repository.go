package table

import (
	"context"
	"errors"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/database"
	"github.com/tablewise/tablewise/internal/entity"
)

// ErrNotFound is returned when a dining table is missing.
var ErrNotFound = errors.New("table not found")

// Filter narrows a table listing. Zero values match everything.
type Filter struct {
	Status entity.TableStatus
}

// Repository encapsulates read/write access for dining tables. Listings are
// ordered by display number. UpdateSeating writes only the seating fields
// (status, party size, reservation time).
type Repository interface {
	List(ctx context.Context, filter Filter) ([]entity.DiningTable, error)
	GetByID(ctx context.Context, id int64) (*entity.DiningTable, error)
	Create(ctx context.Context, table *entity.DiningTable) error
	UpdateSeating(ctx context.Context, table *entity.DiningTable) error
}

// New selects the repository implementation for the configured store driver.
func New(cfg config.Config, conns *database.Connections) Repository {
	if cfg.Database.Driver == "memory" {
		return NewMemory()
	}
	return NewBun(conns)
}
