package app

import (
	"context"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// PurchaseService records a confirmed purchase directly: cells go straight to
// sold inside one transaction, optionally promoting a staged draft into the
// order's permanent image exactly once.
type PurchaseService struct {
	cells    CellRepository
	orders   OrderRepository
	drafts   DraftRepository
	clock    clock.Clock
	maxBatch int
}

func NewPurchaseService(cells CellRepository, orders OrderRepository, drafts DraftRepository, clk clock.Clock, maxBatch int) *PurchaseService {
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}
	return &PurchaseService{
		cells:    cells,
		orders:   orders,
		drafts:   drafts,
		clock:    clk,
		maxBatch: maxBatch,
	}
}

type PurchaseInput struct {
	OrderID    string
	DraftID    string
	Cells      []int
	ImageRef   string
	Color      string
	Link       string
	BuyerEmail string
	Amount     string
	Currency   string
}

type PurchaseResult struct {
	Saved     int
	Conflicts []int
	UsedDraft bool
	ImageSet  bool
}

// Purchase claims the requested cells as sold for the order. A caller-supplied
// cell set takes precedence over the draft's stored set; the draft is only
// consulted when no inline image came with the request. Cells already owned by
// another order are reported in Conflicts rather than failing the purchase.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if in.OrderID == "" {
		return PurchaseResult{}, domain.ErrOrderIDRequired
	}
	if in.ImageRef != "" && !domain.ValidImageRef(in.ImageRef) {
		return PurchaseResult{}, domain.ErrInvalidImageRef
	}

	now := s.clock.Now()
	var result PurchaseResult

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		imageRef := in.ImageRef
		cells := in.Cells
		color, link := in.Color, in.Link

		var draft *domain.Draft
		if imageRef == "" && in.DraftID != "" {
			var err error
			draft, err = s.readDraft(txCtx, in.DraftID, now)
			if err != nil {
				return err
			}
			imageRef = draft.ImageRef
			if len(cells) == 0 {
				cells = draft.Cells
			}
			if color == "" {
				color = draft.Color
			}
			if link == "" {
				link = draft.Link
			}
		}

		batch, err := normalizeBatch(cells, s.maxBatch)
		if err != nil {
			return err
		}

		currency := in.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		// The ledger's amount column is numeric and required; a purchase that
		// carries no amount (payment settled upstream) records zero.
		amount := in.Amount
		if amount == "" {
			amount = "0.00"
		}
		order := domain.Order{
			ID:         in.OrderID,
			Amount:     amount,
			Currency:   currency,
			Status:     domain.OrderStatusCreated,
			BuyerEmail: in.BuyerEmail,
			CreatedAt:  now,
		}
		if err := s.orders.Ensure(txCtx, order); err != nil {
			return err
		}

		if imageRef != "" {
			set, err := s.orders.SetImageIfUnset(txCtx, in.OrderID, imageRef)
			if err != nil {
				return err
			}
			result.ImageSet = set
		}

		for _, id := range batch {
			claimed, err := s.cells.ClaimSold(txCtx, domain.Cell{
				ID:         id,
				OrderID:    in.OrderID,
				Color:      color,
				Link:       link,
				BuyerEmail: in.BuyerEmail,
			}, now)
			if err != nil {
				return err
			}
			if claimed {
				result.Saved++
			} else {
				result.Conflicts = append(result.Conflicts, id)
			}
		}

		if draft != nil {
			if err := s.drafts.MarkConsumed(txCtx, draft.ID); err != nil {
				return err
			}
			result.UsedDraft = true
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return result, nil
}

type PromoteDraftResult struct {
	ImageRef          string
	PromotedCellCount int
	ImageSet          bool
}

// PromoteDraft copies a staged draft's artwork into the order's image field
// (first writer wins) and marks the draft consumed inside one transaction, so
// consumption is exactly-once.
func (s *PurchaseService) PromoteDraft(ctx context.Context, draftID, orderID string) (PromoteDraftResult, error) {
	if orderID == "" {
		return PromoteDraftResult{}, domain.ErrOrderIDRequired
	}

	now := s.clock.Now()
	var result PromoteDraftResult

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		draft, err := s.readDraft(txCtx, draftID, now)
		if err != nil {
			return err
		}

		order, err := s.orders.GetForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		set, err := s.orders.SetImageIfUnset(txCtx, orderID, draft.ImageRef)
		if err != nil {
			return err
		}
		if err := s.drafts.MarkConsumed(txCtx, draft.ID); err != nil {
			return err
		}

		result = PromoteDraftResult{
			ImageRef:          draft.ImageRef,
			PromotedCellCount: len(draft.Cells),
			ImageSet:          set,
		}
		return nil
	})
	if err != nil {
		return PromoteDraftResult{}, err
	}
	return result, nil
}

// readDraft locks the draft row and fails closed on any inert state.
func (s *PurchaseService) readDraft(txCtx context.Context, draftID string, now time.Time) (*domain.Draft, error) {
	draft, err := s.drafts.GetForUpdate(txCtx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, domain.ErrDraftNotFound
	}
	if draft.Consumed {
		return nil, domain.ErrDraftConsumed
	}
	if draft.Expired(now) {
		return nil, domain.ErrDraftExpired
	}
	return draft, nil
}
