package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/messaging"
	repo "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/tablewise/tablewise/service/table")

// Service encapsulates business logic around table seating.
type Service struct {
	repo      repo.Repository
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository repo.Repository
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// List returns dining tables matching the filter, ordered by display number.
func (s *Service) List(ctx context.Context, filter repo.Filter) ([]entity.DiningTable, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.List")
	defer span.End()

	tables, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load tables", errorbank.WithCause(err))
	}
	return tables, nil
}

// Available returns the tables currently open for seating.
func (s *Service) Available(ctx context.Context) ([]entity.DiningTable, error) {
	return s.List(ctx, repo.Filter{Status: entity.TableStatusAvailable})
}

// Get retrieves a dining table by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.DiningTable, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.Get", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}
	return t, nil
}

// UpdateStatus moves a table into the given status. The party size is
// meaningful only when moving into occupied or reserved; a move to available
// always zeroes the party and clears the reservation, whatever the origin
// state. Returns the table as stored afterwards.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status entity.TableStatus, partySize *int) (*entity.DiningTable, error) {
	if !status.Valid() {
		return nil, errorbank.BadRequest(fmt.Sprintf("unknown table status %q", status))
	}
	if partySize != nil && *partySize < 0 {
		return nil, errorbank.BadRequest("party size must not be negative")
	}

	ctx, span := serviceTracer.Start(ctx, "TableService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("table.id", id),
		attribute.String("table.status", string(status)),
	))
	defer span.End()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.ApplyStatus(status, partySize)

	if err := s.repo.UpdateSeating(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update table status", errorbank.WithCause(err))
	}

	s.publishStatusChanged(ctx, t)
	return t, nil
}

// Reserve puts a table into reserved with reservation time and party size
// set together, the direct path used by the reservation workflow.
func (s *Service) Reserve(ctx context.Context, id int64, at time.Time, partySize int) (*entity.DiningTable, error) {
	if partySize <= 0 {
		return nil, errorbank.BadRequest("party size is required for a reservation")
	}

	ctx, span := serviceTracer.Start(ctx, "TableService.Reserve", trace.WithAttributes(
		attribute.Int64("table.id", id),
		attribute.Int("table.party_size", partySize),
	))
	defer span.End()

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.ApplyReservation(at, partySize)

	if err := s.repo.UpdateSeating(ctx, t); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to reserve table", errorbank.WithCause(err))
	}

	s.publishStatusChanged(ctx, t)
	return t, nil
}

// TableStatusChangedEvent is emitted when a table's seating state changes.
type TableStatusChangedEvent struct {
	Type      string             `json:"type"`
	TableID   int64              `json:"table_id"`
	Number    string             `json:"number"`
	Status    entity.TableStatus `json:"status"`
	PartySize int                `json:"party_size"`
	ChangedAt time.Time          `json:"changed_at"`
}

func (s *Service) publishStatusChanged(ctx context.Context, t *entity.DiningTable) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := TableStatusChangedEvent{
		Type:      "table.status_changed",
		TableID:   t.ID,
		Number:    t.Number,
		Status:    t.Status,
		PartySize: t.CurrentPartySize,
		ChangedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal table status changed", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("table-%d", t.ID)), payload); err != nil {
		s.logger.Error("publish table status changed", zap.Error(err))
	}
}
