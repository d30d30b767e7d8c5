package table

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tablewise/tablewise/internal/dto"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/presentation/http/response"
	repo "github.com/tablewise/tablewise/internal/repository/table"
	service "github.com/tablewise/tablewise/internal/service/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/tablewise/tablewise/transport/http/table")

// Handler exposes dining table endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a table Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/tables")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id/status", h.updateStatus)
	g.POST("/:id/reserve", h.reserve)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	var filter repo.Filter
	if raw := c.QueryParam("status"); raw != "" {
		status, err := entity.ParseTableStatus(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest(err.Error())).Build()
		}
		filter.Status = status
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.list")
	defer span.End()

	tables, err := h.svc.List(ctx, filter)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, toDTO(&tables[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.getByID", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(t)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status    string `json:"status"`
		PartySize *int   `json:"party_size"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	status, err := entity.ParseTableStatus(payload.Status)
	if err != nil {
		return b.WithError(errorbank.BadRequest(err.Error())).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.updateStatus", trace.WithAttributes(
		attribute.Int64("table.id", id),
		attribute.String("table.status", payload.Status),
	))
	defer span.End()

	t, err := h.svc.UpdateStatus(ctx, id, status, payload.PartySize)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(t)).Build()
}

func (h *Handler) reserve(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		ReservationTime time.Time `json:"reservation_time"`
		PartySize       int       `json:"party_size"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.ReservationTime.IsZero() {
		return b.WithError(errorbank.BadRequest("reservation_time is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.reserve", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t, err := h.svc.Reserve(ctx, id, payload.ReservationTime, payload.PartySize)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(t)).Build()
}

func toDTO(t *entity.DiningTable) dto.TableResponse {
	actions := t.Status.QuickActions()
	quick := make([]string, 0, len(actions))
	for _, a := range actions {
		quick = append(quick, string(a))
	}
	return dto.TableResponse{
		ID:               t.ID,
		Number:           t.Number,
		Capacity:         t.Capacity,
		Status:           string(t.Status),
		CurrentPartySize: t.CurrentPartySize,
		ReservationTime:  t.ReservationTime,
		QuickActions:     quick,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
