package menu

import (
	"context"
	"errors"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/database"
	"github.com/tablewise/tablewise/internal/entity"
)

// ErrNotFound is returned when a menu item is missing.
var ErrNotFound = errors.New("menu item not found")

// Filter narrows a menu listing. Zero values match everything.
type Filter struct {
	Category  string
	Available *bool
}

// Repository encapsulates read/write access for menu items. Both the
// SQL-backed and in-memory stores satisfy it; callers never see which one
// they hold.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]entity.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*entity.MenuItem, error)
	Create(ctx context.Context, item *entity.MenuItem) error
	Update(ctx context.Context, item *entity.MenuItem) error
	UpdateAvailability(ctx context.Context, id int64, available bool) (*entity.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
}

// New selects the repository implementation for the configured store driver.
func New(cfg config.Config, conns *database.Connections) Repository {
	if cfg.Database.Driver == "memory" {
		return NewMemory()
	}
	return NewBun(conns)
}
