package menu

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tablewise/tablewise/internal/dto"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/presentation/http/response"
	repo "github.com/tablewise/tablewise/internal/repository/menu"
	service "github.com/tablewise/tablewise/internal/service/menu"
	"github.com/tablewise/tablewise/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/tablewise/tablewise/transport/http/menu")

// Handler exposes menu item endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/menu-items")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/availability", h.setAvailability)
	g.DELETE("/:id", h.delete)

	e.GET("/menu-categories", h.categories)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	var filter repo.Filter
	filter.Category = c.QueryParam("category")
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("invalid available filter", errorbank.WithCause(err))).Build()
		}
		filter.Available = &available
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.list")
	defer span.End()

	items, err := h.svc.List(ctx, filter)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toDTO(&items[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.getByID", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(item)).Build()
}

type payload struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
	Description string  `json:"description"`
}

func (p payload) toEntity() *entity.MenuItem {
	item := &entity.MenuItem{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Available:   true,
		Description: p.Description,
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	return item
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var p payload
	if err := c.Bind(&p); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.create")
	defer span.End()

	item := p.toEntity()
	if err := h.svc.Create(ctx, item); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(item)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var p payload
	if err := c.Bind(&p); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.update", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item := p.toEntity()
	item.ID = id
	if err := h.svc.Update(ctx, item); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(item)).Build()
}

func (h *Handler) setAvailability(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var p struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&p); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.setAvailability", trace.WithAttributes(
		attribute.Int64("menu_item.id", id),
		attribute.Bool("menu_item.available", p.Available),
	))
	defer span.End()

	item, err := h.svc.SetAvailability(ctx, id, p.Available)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(item)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func (h *Handler) categories(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "menuItems.categories")
	defer span.End()

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(categories).Build()
}

func toDTO(item *entity.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Category:    item.Category,
		Available:   item.Available,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
