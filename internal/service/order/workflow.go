package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tablewise/tablewise/internal/draft"
	"github.com/tablewise/tablewise/internal/entity"
	menurepo "github.com/tablewise/tablewise/internal/repository/menu"
	tablerepo "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/pkg/errorbank"
)

// DraftState is a point-in-time snapshot of a draft session, safe to hand to
// the transport layer.
type DraftState struct {
	ID           string
	Step         draft.Step
	CustomerName string
	TableID      int64
	Items        []entity.OrderItem
	Notes        string
	Total        float64
}

// DraftStart bundles a new draft with the data the workflow needs up front.
type DraftStart struct {
	State           DraftState
	AvailableTables []entity.DiningTable
	MenuItems       []entity.MenuItem
	Categories      []string
}

// StartDraft opens a new draft session. The candidate tables, available menu
// items, and category labels are loaded concurrently; if any one fetch fails
// the whole load fails and no session is created.
func (s *Service) StartDraft(ctx context.Context) (*DraftStart, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.StartDraft")
	defer span.End()

	var (
		tables     []entity.DiningTable
		menuItems  []entity.MenuItem
		categories []string
	)

	available := true
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = s.tableRepo.List(gctx, tablerepo.Filter{Status: entity.TableStatusAvailable})
		return err
	})
	g.Go(func() error {
		var err error
		menuItems, err = s.menuRepo.List(gctx, menurepo.Filter{Available: &available})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.menuRepo.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to load order workflow data", errorbank.WithCause(err))
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.drafts[id] = draft.New()
	state := s.snapshotLocked(id)
	s.mu.Unlock()

	return &DraftStart{
		State:           *state,
		AvailableTables: tables,
		MenuItems:       menuItems,
		Categories:      categories,
	}, nil
}

// Draft returns the current state of a draft session.
func (s *Service) Draft(id string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	return s.snapshotLocked(id), nil
}

// SetDraftCustomer records the customer name and table selection.
func (s *Service) SetDraftCustomer(id string, customerName string, tableID int64) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	d.SetCustomer(customerName, tableID)
	return s.snapshotLocked(id), nil
}

// SetDraftNotes records optional notes on the draft.
func (s *Service) SetDraftNotes(id string, notes string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	d.SetNotes(notes)
	return s.snapshotLocked(id), nil
}

// AddDraftItem adds one unit of a menu item to the draft, incrementing the
// existing line when present. The item must exist and be available.
func (s *Service) AddDraftItem(ctx context.Context, id string, menuItemID int64) (*DraftState, error) {
	item, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, menurepo.ErrNotFound) {
			return nil, errorbank.BadRequest(fmt.Sprintf("menu item %d does not exist", menuItemID))
		}
		return nil, errorbank.Internal("failed to load menu item", errorbank.WithCause(err))
	}
	if !item.Available {
		return nil, errorbank.Unprocessable(fmt.Sprintf("menu item %q is not available", item.Name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	d.AddItem(item)
	return s.snapshotLocked(id), nil
}

// SetDraftItemQuantity replaces a line's quantity; zero or below removes the
// line entirely.
func (s *Service) SetDraftItemQuantity(id string, menuItemID int64, quantity int) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	if !d.SetQuantity(menuItemID, quantity) {
		return nil, errorbank.BadRequest(fmt.Sprintf("menu item %d is not on the draft", menuItemID))
	}
	return s.snapshotLocked(id), nil
}

// RemoveDraftItem drops a line from the draft.
func (s *Service) RemoveDraftItem(id string, menuItemID int64) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	if !d.RemoveItem(menuItemID) {
		return nil, errorbank.BadRequest(fmt.Sprintf("menu item %d is not on the draft", menuItemID))
	}
	return s.snapshotLocked(id), nil
}

// AdvanceDraft moves the draft to its next step; a failed gate leaves the
// step and data untouched.
func (s *Service) AdvanceDraft(id string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	if err := d.Advance(); err != nil {
		return nil, err
	}
	return s.snapshotLocked(id), nil
}

// BackDraft returns the draft to the previous step, keeping entered data.
func (s *Service) BackDraft(id string) (*DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}
	d.Back()
	return s.snapshotLocked(id), nil
}

// SubmitDraft finalises the draft into a persisted order, building from a
// snapshot taken under the lock so edits racing the submit cannot touch the
// order being built. On success the session is discarded; on failure it is
// retained so the operator can retry without re-entering anything.
func (s *Service) SubmitDraft(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.SubmitDraft")
	defer span.End()

	s.mu.Lock()
	d, ok := s.drafts[id]
	var snapshot *draft.Order
	if ok {
		snapshot = d.Clone()
	}
	s.mu.Unlock()
	if !ok {
		return nil, errorbank.NotFound("draft not found")
	}

	order, err := s.finalize(ctx, snapshot, 0)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	return order, nil
}

// CancelDraft discards a draft session unconditionally.
func (s *Service) CancelDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return errorbank.NotFound("draft not found")
	}
	delete(s.drafts, id)
	return nil
}

// snapshotLocked copies the draft into a DraftState. Callers hold s.mu.
func (s *Service) snapshotLocked(id string) *DraftState {
	d := s.drafts[id]
	items := make([]entity.OrderItem, len(d.Items))
	copy(items, d.Items)
	return &DraftState{
		ID:           id,
		Step:         d.Step(),
		CustomerName: d.CustomerName,
		TableID:      d.TableID,
		Items:        items,
		Notes:        d.Notes,
		Total:        d.Total(),
	}
}
