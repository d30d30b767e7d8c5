package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tablewise/tablewise/internal/dto"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/presentation/http/response"
	repo "github.com/tablewise/tablewise/internal/repository/order"
	service "github.com/tablewise/tablewise/internal/service/order"
	"github.com/tablewise/tablewise/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/tablewise/tablewise/transport/http/order")

// Handler exposes order and draft-workflow endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.POST("/:id/advance", h.advance)
	g.PATCH("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.delete)

	d := e.Group("/drafts")
	d.POST("", h.startDraft)
	d.GET("/:id", h.getDraft)
	d.PUT("/:id/customer", h.setDraftCustomer)
	d.PUT("/:id/notes", h.setDraftNotes)
	d.POST("/:id/items", h.addDraftItem)
	d.PATCH("/:id/items/:itemID", h.setDraftItemQuantity)
	d.DELETE("/:id/items/:itemID", h.removeDraftItem)
	d.POST("/:id/advance", h.advanceDraft)
	d.POST("/:id/back", h.backDraft)
	d.POST("/:id/submit", h.submitDraft)
	d.DELETE("/:id", h.cancelDraft)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	var filter repo.Filter
	if raw := c.QueryParam("status"); raw != "" {
		status, err := entity.ParseOrderStatus(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest(err.Error())).Build()
		}
		filter.Status = status
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx, filter)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		CustomerName string `json:"customer_name"`
		TableID      int64  `json:"table_id"`
		Items        []struct {
			MenuItemID int64 `json:"menu_item_id"`
			Quantity   int   `json:"quantity"`
		} `json:"items"`
		Notes         string `json:"notes"`
		EstimatedTime int    `json:"estimated_time"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	input := service.CreateInput{
		CustomerName:  payload.CustomerName,
		TableID:       payload.TableID,
		Notes:         payload.Notes,
		EstimatedTime: payload.EstimatedTime,
	}
	for _, line := range payload.Items {
		input.Items = append(input.Items, service.CreateItemInput{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	order, err := h.svc.Create(ctx, input)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

func (h *Handler) advance(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.advance", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Advance(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	status, err := entity.ParseOrderStatus(payload.Status)
	if err != nil {
		return b.WithError(errorbank.BadRequest(err.Error())).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:            order.ID,
		Number:        order.Number,
		CustomerName:  order.CustomerName,
		TableNumber:   order.TableNumber,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		NextAction:    order.Status.Action(),
		Notes:         order.Notes,
		EstimatedTime: order.EstimatedTime,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
