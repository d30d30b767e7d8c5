package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/cache"
	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/draft"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/messaging"
	menurepo "github.com/tablewise/tablewise/internal/repository/menu"
	repo "github.com/tablewise/tablewise/internal/repository/order"
	tablerepo "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/tablewise/tablewise/service/order")

// Service encapsulates business logic around orders: lifecycle transitions
// and the draft-based creation workflow.
type Service struct {
	repo      repo.Repository
	menuRepo  menurepo.Repository
	tableRepo tablerepo.Repository
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig

	mu     sync.Mutex
	drafts map[string]*draft.Order
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository      repo.Repository
	MenuRepository  menurepo.Repository
	TableRepository tablerepo.Repository
	Cache           cache.Store
	Config          config.Config
	Logger          *zap.Logger
	Publisher       messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		menuRepo:  p.MenuRepository,
		tableRepo: p.TableRepository,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		drafts: make(map[string]*draft.Order),
	}
}

// List returns orders matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter repo.Filter) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, order)
	return order, nil
}

// CreateItemInput selects one menu item and a quantity for direct creation.
type CreateItemInput struct {
	MenuItemID int64
	Quantity   int
}

// CreateInput is the full-payload creation path. It runs through the same
// draft builder as the interactive workflow, so all its gates apply.
type CreateInput struct {
	CustomerName  string
	TableID       int64
	Items         []CreateItemInput
	Notes         string
	EstimatedTime int
}

// Create builds and persists an order in one call.
func (s *Service) Create(ctx context.Context, input CreateInput) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.Int64("table.id", input.TableID)))
	defer span.End()

	d := draft.New()
	d.SetCustomer(input.CustomerName, input.TableID)
	d.SetNotes(input.Notes)

	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, errorbank.BadRequest(fmt.Sprintf("quantity for menu item %d must be positive", line.MenuItemID))
		}
		item, err := s.menuRepo.GetByID(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, menurepo.ErrNotFound) {
				return nil, errorbank.BadRequest(fmt.Sprintf("menu item %d does not exist", line.MenuItemID))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to load menu item", errorbank.WithCause(err))
		}
		if !item.Available {
			return nil, errorbank.Unprocessable(fmt.Sprintf("menu item %q is not available", item.Name))
		}
		d.AddItem(item)
		if line.Quantity > 1 {
			d.SetQuantity(item.ID, line.Quantity)
		}
	}

	order, err := s.finalize(ctx, d, input.EstimatedTime)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// finalize resolves the draft's table, builds the order, and persists it.
// The table must still be open for seating at submission time.
func (s *Service) finalize(ctx context.Context, d *draft.Order, estimatedTime int) (*entity.Order, error) {
	t, err := s.tableRepo.GetByID(ctx, d.TableID)
	if err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return nil, errorbank.BadRequest("selected table does not exist")
		}
		return nil, errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}
	if t.Status != entity.TableStatusAvailable {
		return nil, errorbank.Conflict(fmt.Sprintf("table %s is no longer available", t.Number))
	}

	order, err := d.Build(t, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	order.EstimatedTime = estimatedTime

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, order)
	s.publishEvent(ctx, order, "order.created")
	return order, nil
}

// Advance moves the order to the single next status in its lifecycle.
func (s *Service) Advance(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Advance", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, errorbank.InvalidTransition(fmt.Sprintf("order %s is already delivered", order.Number))
	}
	return s.transition(ctx, order, next)
}

// UpdateStatus moves the order to an explicit target status. Anything other
// than the single next step in the lifecycle is rejected: no skipping, no
// going back, nothing past delivered.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target entity.OrderStatus) (*entity.Order, error) {
	if !target.Valid() {
		return nil, errorbank.BadRequest(fmt.Sprintf("unknown order status %q", target))
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(target)),
	))
	defer span.End()

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(target) {
		return nil, errorbank.InvalidTransition(
			fmt.Sprintf("order %s cannot move from %s to %s", order.Number, order.Status, target),
		)
	}
	return s.transition(ctx, order, target)
}

func (s *Service) transition(ctx context.Context, order *entity.Order, target entity.OrderStatus) (*entity.Order, error) {
	updated, err := s.repo.UpdateStatus(ctx, order.ID, target)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, updated)
	s.publishEvent(ctx, updated, "order.status_changed")
	return updated, nil
}

// Delete removes an order. Exposed as a capability; the primary workflow
// never deletes orders.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
	}
	return nil
}

// OrderEvent is emitted when an order is created or changes status.
type OrderEvent struct {
	Type        string             `json:"type"`
	ID          int64              `json:"id"`
	Number      string             `json:"number"`
	TableNumber string             `json:"table_number"`
	Status      entity.OrderStatus `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func (s *Service) publishEvent(ctx context.Context, order *entity.Order, eventType string) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderEvent{
		Type:        eventType,
		ID:          order.ID,
		Number:      order.Number,
		TableNumber: order.TableNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) {
	if order == nil {
		return
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		s.logger.Warn("orders cache encode failed", zap.Int64("id", order.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}
}
