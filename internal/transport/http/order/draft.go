package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tablewise/tablewise/internal/dto"
	"github.com/tablewise/tablewise/internal/entity"
	"github.com/tablewise/tablewise/internal/presentation/http/response"
	service "github.com/tablewise/tablewise/internal/service/order"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

func (h *Handler) startDraft(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "drafts.start")
	defer span.End()

	start, err := h.svc.StartDraft(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := dto.DraftStartResponse{
		Draft:      draftDTO(&start.State),
		Categories: start.Categories,
	}
	out.AvailableTables = make([]dto.TableResponse, 0, len(start.AvailableTables))
	for i := range start.AvailableTables {
		out.AvailableTables = append(out.AvailableTables, tableDTO(&start.AvailableTables[i]))
	}
	out.MenuItems = make([]dto.MenuItemResponse, 0, len(start.MenuItems))
	for i := range start.MenuItems {
		out.MenuItems = append(out.MenuItems, menuItemDTO(&start.MenuItems[i]))
	}

	return b.WithStatus(http.StatusCreated).WithData(out).Build()
}

func (h *Handler) getDraft(c echo.Context) error {
	b := response.New(c)

	state, err := h.svc.Draft(c.Param("id"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) setDraftCustomer(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		CustomerName string `json:"customer_name"`
		TableID      int64  `json:"table_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	state, err := h.svc.SetDraftCustomer(c.Param("id"), payload.CustomerName, payload.TableID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) setDraftNotes(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	state, err := h.svc.SetDraftNotes(c.Param("id"), payload.Notes)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) addDraftItem(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		MenuItemID int64 `json:"menu_item_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "drafts.addItem")
	defer span.End()

	state, err := h.svc.AddDraftItem(ctx, c.Param("id"), payload.MenuItemID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) setDraftItemQuantity(c echo.Context) error {
	b := response.New(c)

	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid item id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	state, err := h.svc.SetDraftItemQuantity(c.Param("id"), itemID, payload.Quantity)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) removeDraftItem(c echo.Context) error {
	b := response.New(c)

	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid item id", errorbank.WithCause(err))).Build()
	}

	state, err := h.svc.RemoveDraftItem(c.Param("id"), itemID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) advanceDraft(c echo.Context) error {
	b := response.New(c)

	state, err := h.svc.AdvanceDraft(c.Param("id"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) backDraft(c echo.Context) error {
	b := response.New(c)

	state, err := h.svc.BackDraft(c.Param("id"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(draftDTO(state)).Build()
}

func (h *Handler) submitDraft(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "drafts.submit")
	defer span.End()

	order, err := h.svc.SubmitDraft(ctx, c.Param("id"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

func (h *Handler) cancelDraft(c echo.Context) error {
	b := response.New(c)

	if err := h.svc.CancelDraft(c.Param("id")); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusNoContent).Build()
}

func draftDTO(state *service.DraftState) dto.DraftResponse {
	items := make([]dto.OrderItemResponse, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, dto.OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}
	return dto.DraftResponse{
		ID:           state.ID,
		Step:         int(state.Step),
		CustomerName: state.CustomerName,
		TableID:      state.TableID,
		Items:        items,
		Total:        state.Total,
		Notes:        state.Notes,
	}
}

func tableDTO(t *entity.DiningTable) dto.TableResponse {
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

func menuItemDTO(m *entity.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Category:    m.Category,
		Available:   m.Available,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
