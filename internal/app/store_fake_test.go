package app

import (
	"context"
	"errors"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// fakeStore is an in-memory stand-in for the three repositories. WithTx
// snapshots all state and restores it when fn fails, mimicking rollback of
// the real store.
type fakeStore struct {
	cells  map[int]domain.Cell
	orders map[string]domain.Order
	drafts map[string]domain.Draft
	inTx   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cells:  make(map[int]domain.Cell),
		orders: make(map[string]domain.Order),
		drafts: make(map[string]domain.Draft),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.inTx {
		return fn(ctx)
	}

	cells := make(map[int]domain.Cell, len(f.cells))
	for k, v := range f.cells {
		cells[k] = v
	}
	orders := make(map[string]domain.Order, len(f.orders))
	for k, v := range f.orders {
		orders[k] = v
	}
	drafts := make(map[string]domain.Draft, len(f.drafts))
	for k, v := range f.drafts {
		drafts[k] = v
	}

	f.inTx = true
	err := fn(ctx)
	f.inTx = false
	if err != nil {
		f.cells, f.orders, f.drafts = cells, orders, drafts
	}
	return err
}

func (f *fakeStore) GetForUpdate(_ context.Context, id int) (*domain.Cell, error) {
	c, ok := f.cells[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) InsertHeld(_ context.Context, id int, expiresAt time.Time) error {
	if _, exists := f.cells[id]; exists {
		return domain.ErrCellContended
	}
	f.cells[id] = domain.Cell{ID: id, Status: domain.CellStatusHeld, HoldExpiresAt: &expiresAt}
	return nil
}

func (f *fakeStore) Rehold(_ context.Context, id int, expiresAt time.Time) error {
	c, ok := f.cells[id]
	if !ok {
		return errors.New("rehold of missing cell")
	}
	c.Status = domain.CellStatusHeld
	c.HoldExpiresAt = &expiresAt
	c.OrderID = ""
	f.cells[id] = c
	return nil
}

func (f *fakeStore) StampOrder(_ context.Context, ids []int, orderID string) error {
	for _, id := range ids {
		c, ok := f.cells[id]
		if !ok || c.Status != domain.CellStatusHeld {
			continue
		}
		c.OrderID = orderID
		f.cells[id] = c
	}
	return nil
}

func (f *fakeStore) CountHeldByOrder(_ context.Context, orderID string) (int, error) {
	n := 0
	for _, c := range f.cells {
		if c.OrderID == orderID && c.Status == domain.CellStatusHeld {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) MarkSoldByOrder(_ context.Context, orderID string) (int, error) {
	n := 0
	for id, c := range f.cells {
		if c.OrderID == orderID && c.Status == domain.CellStatusHeld {
			c.Status = domain.CellStatusSold
			c.HoldExpiresAt = nil
			f.cells[id] = c
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ClaimSold(_ context.Context, cell domain.Cell, now time.Time) (bool, error) {
	existing, ok := f.cells[cell.ID]
	if ok {
		sameOrder := existing.Status == domain.CellStatusHeld && existing.OrderID == cell.OrderID
		if !existing.Available(now) && !sameOrder {
			return false, nil
		}
	}
	cell.Status = domain.CellStatusSold
	cell.HoldExpiresAt = nil
	f.cells[cell.ID] = cell
	return true, nil
}

func (f *fakeStore) ReleaseExpired(_ context.Context, now time.Time) (int, error) {
	n := 0
	for id, c := range f.cells {
		if c.Status == domain.CellStatusHeld && c.HoldExpiresAt != nil && c.HoldExpiresAt.Before(now) {
			c.Status = domain.CellStatusFree
			c.HoldExpiresAt = nil
			c.OrderID = ""
			f.cells[id] = c
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListOccupied(_ context.Context, now time.Time) ([]domain.Overlay, error) {
	var out []domain.Overlay
	for id := 0; id < domain.GridSize; id++ {
		c, ok := f.cells[id]
		if !ok {
			continue
		}
		switch c.Status {
		case domain.CellStatusSold:
			img := c.ImageRef
			if o, ok := f.orders[c.OrderID]; ok && o.ImageRef != "" {
				img = o.ImageRef
			}
			out = append(out, domain.Overlay{ID: c.ID, Color: c.Color, ImageRef: img, Link: c.Link})
		case domain.CellStatusHeld:
			if c.HoldExpiresAt != nil && c.HoldExpiresAt.After(now) {
				out = append(out, domain.Overlay{ID: c.ID})
			}
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, order domain.Order) error {
	if order.Amount == "" {
		return errors.New("invalid input syntax for type numeric")
	}
	if _, exists := f.orders[order.ID]; exists {
		return errors.New("duplicate order")
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) Ensure(_ context.Context, order domain.Order) error {
	// The real column is NUMERIC NOT NULL; parameter parsing fails before
	// ON CONFLICT can skip the row.
	if order.Amount == "" {
		return errors.New("invalid input syntax for type numeric")
	}
	if _, exists := f.orders[order.ID]; exists {
		return nil
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) GetOrderForUpdate(_ context.Context, orderID string) (*domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeStore) SetImageIfUnset(_ context.Context, orderID, imageRef string) (bool, error) {
	o, ok := f.orders[orderID]
	if !ok || o.ImageRef != "" {
		return false, nil
	}
	o.ImageRef = imageRef
	f.orders[orderID] = o
	return true, nil
}

func (f *fakeStore) MarkCaptured(_ context.Context, orderID, captureRef string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = domain.OrderStatusCaptured
	o.CaptureRef = captureRef
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) CreateDraft(_ context.Context, draft domain.Draft) error {
	if _, exists := f.drafts[draft.ID]; exists {
		return errors.New("duplicate draft")
	}
	f.drafts[draft.ID] = draft
	return nil
}

func (f *fakeStore) GetDraftForUpdate(_ context.Context, draftID string) (*domain.Draft, error) {
	d, ok := f.drafts[draftID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeStore) MarkConsumed(_ context.Context, draftID string) error {
	d, ok := f.drafts[draftID]
	if !ok {
		return domain.ErrDraftNotFound
	}
	d.Consumed = true
	f.drafts[draftID] = d
	return nil
}

func (f *fakeStore) DeleteStale(_ context.Context, now time.Time) (int, error) {
	n := 0
	for id, d := range f.drafts {
		if d.Consumed || !d.ExpiresAt.After(now) {
			delete(f.drafts, id)
			n++
		}
	}
	return n, nil
}

// fakeStore satisfies CellRepository directly; the order and draft views need
// thin adapters because GetForUpdate/Create differ per table.
type fakeOrderRepo struct{ *fakeStore }

func (f fakeOrderRepo) GetForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	return f.fakeStore.GetOrderForUpdate(ctx, orderID)
}

type fakeDraftRepo struct{ *fakeStore }

func (f fakeDraftRepo) Create(ctx context.Context, draft domain.Draft) error {
	return f.fakeStore.CreateDraft(ctx, draft)
}

func (f fakeDraftRepo) GetForUpdate(ctx context.Context, draftID string) (*domain.Draft, error) {
	return f.fakeStore.GetDraftForUpdate(ctx, draftID)
}
