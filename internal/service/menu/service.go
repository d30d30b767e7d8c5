package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/cache"
	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	repo "github.com/tablewise/tablewise/internal/repository/menu"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/tablewise/tablewise/service/menu")

// Service encapsulates business logic around menu administration.
type Service struct {
	repo     repo.Repository
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:     p.Repository,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
	}
}

// List returns menu items matching the filter, ordered by name.
func (s *Service) List(ctx context.Context, filter repo.Filter) ([]entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.List")
	defer span.End()

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu items", errorbank.WithCause(err))
	}
	return items, nil
}

// Get retrieves a menu item by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Get", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if item, err := s.getFromCache(ctx, id); err == nil {
		return item, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("menu cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu item", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, item)
	return item, nil
}

// Create validates and persists a new menu item.
func (s *Service) Create(ctx context.Context, item *entity.MenuItem) error {
	if err := validate(item); err != nil {
		return err
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	ctx, span := serviceTracer.Start(ctx, "MenuService.Create", trace.WithAttributes(attribute.String("menu_item.name", item.Name)))
	defer span.End()

	if err := s.repo.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to create menu item", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, item)
	return nil
}

// Update replaces a menu item's full record.
func (s *Service) Update(ctx context.Context, item *entity.MenuItem) error {
	if err := validate(item); err != nil {
		return err
	}
	item.UpdatedAt = time.Now().UTC()

	ctx, span := serviceTracer.Start(ctx, "MenuService.Update", trace.WithAttributes(attribute.Int64("menu_item.id", item.ID)))
	defer span.End()

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update menu item", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, item)
	return nil
}

// SetAvailability toggles the availability flag, touching only that field in
// the store, and returns the updated record.
func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.SetAvailability", trace.WithAttributes(
		attribute.Int64("menu_item.id", id),
		attribute.Bool("menu_item.available", available),
	))
	defer span.End()

	item, err := s.repo.UpdateAvailability(ctx, id, available)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update availability", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, item)
	return item, nil
}

// Delete removes a menu item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete menu item", errorbank.WithCause(err))
	}

	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("menu cache delete failed", zap.Int64("id", id), zap.Error(err))
	}
	return nil
}

// Categories returns the distinct, sorted category labels in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Categories")
	defer span.End()

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load categories", errorbank.WithCause(err))
	}
	return categories, nil
}

func validate(item *entity.MenuItem) error {
	if item == nil {
		return errorbank.BadRequest("menu item payload is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return errorbank.BadRequest("menu item name is required")
	}
	if item.Price < 0 {
		return errorbank.BadRequest("menu item price must not be negative")
	}
	return nil
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("menu_items:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.MenuItem, error) {
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var item entity.MenuItem
	if err := json.Unmarshal(bytes, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) storeInCache(ctx context.Context, item *entity.MenuItem) {
	if item == nil {
		return
	}
	bytes, err := json.Marshal(item)
	if err != nil {
		s.logger.Warn("menu cache encode failed", zap.Int64("id", item.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(item.ID), bytes, s.cacheTTL); err != nil {
		s.logger.Warn("menu cache write failed", zap.Int64("id", item.ID), zap.Error(err))
	}
}
