package seeder

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	menurepo "github.com/tablewise/tablewise/internal/repository/menu"
	tablerepo "github.com/tablewise/tablewise/internal/repository/table"
)

// Seeder loads starter floor-plan and menu data for local/dev setups.
type Seeder struct {
	tables tablerepo.Repository
	menu   menurepo.Repository
	logger *zap.Logger
}

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// AutoSeed runs the seeder on startup when the in-memory store is active,
// so a dev instance always boots with a usable floor plan and menu.
var AutoSeed = fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, s *Seeder) {
	if cfg.Database.Driver != "memory" {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.All(ctx)
		},
	})
})

// New constructs a Seeder over the repository interfaces, so it works against
// both the hosted store and the in-memory one.
func New(tables tablerepo.Repository, menu menurepo.Repository, logger *zap.Logger) *Seeder {
	return &Seeder{tables: tables, menu: menu, logger: logger}
}

// All seeds every collection.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.DiningTables(ctx); err != nil {
		return err
	}
	return s.MenuItems(ctx)
}

// DiningTables seeds the floor plan. A non-empty collection is left alone.
func (s *Seeder) DiningTables(ctx context.Context) error {
	existing, err := s.tables.List(ctx, tablerepo.Filter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("dining tables already present; skipping seed", zap.Int("count", len(existing)))
		return nil
	}

	samples := []entity.DiningTable{
		{Number: "1", Capacity: 2, Status: entity.TableStatusAvailable},
		{Number: "2", Capacity: 2, Status: entity.TableStatusAvailable},
		{Number: "3", Capacity: 4, Status: entity.TableStatusAvailable},
		{Number: "4", Capacity: 4, Status: entity.TableStatusAvailable},
		{Number: "5", Capacity: 6, Status: entity.TableStatusAvailable},
		{Number: "6", Capacity: 6, Status: entity.TableStatusAvailable},
		{Number: "7", Capacity: 8, Status: entity.TableStatusAvailable},
		{Number: "8", Capacity: 8, Status: entity.TableStatusAvailable},
	}
	for i := range samples {
		if err := s.tables.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	s.logger.Info("seeded dining tables", zap.Int("count", len(samples)))
	return nil
}

// MenuItems seeds the menu. A non-empty collection is left alone.
func (s *Seeder) MenuItems(ctx context.Context) error {
	existing, err := s.menu.List(ctx, menurepo.Filter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("menu items already present; skipping seed", zap.Int("count", len(existing)))
		return nil
	}

	samples := []entity.MenuItem{
		{Name: "Bruschetta", Price: 6.50, Category: "Appetizers", Available: true, Description: "Grilled bread, tomato, basil"},
		{Name: "Calamari", Price: 9.00, Category: "Appetizers", Available: true, Description: "Fried squid with lemon aioli"},
		{Name: "Caesar Salad", Price: 8.00, Category: "Appetizers", Available: true, Description: "Romaine, parmesan, croutons"},
		{Name: "Margherita Pizza", Price: 12.00, Category: "Mains", Available: true, Description: "Tomato, mozzarella, basil"},
		{Name: "Spaghetti Carbonara", Price: 14.50, Category: "Mains", Available: true, Description: "Guanciale, egg, pecorino"},
		{Name: "Grilled Salmon", Price: 18.00, Category: "Mains", Available: true, Description: "With seasonal vegetables"},
		{Name: "Ribeye Steak", Price: 26.00, Category: "Mains", Available: true, Description: "300g, with fries"},
		{Name: "Tiramisu", Price: 7.00, Category: "Desserts", Available: true, Description: "Classic, house-made"},
		{Name: "Panna Cotta", Price: 6.50, Category: "Desserts", Available: true, Description: "Vanilla bean, berry coulis"},
		{Name: "Espresso", Price: 2.50, Category: "Drinks", Available: true, Description: "Double shot"},
		{Name: "House Red", Price: 5.50, Category: "Drinks", Available: true, Description: "Glass, Montepulciano"},
		{Name: "Sparkling Water", Price: 3.00, Category: "Drinks", Available: true, Description: "750ml bottle"},
	}
	for i := range samples {
		if err := s.menu.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	s.logger.Info("seeded menu items", zap.Int("count", len(samples)))
	return nil
}
