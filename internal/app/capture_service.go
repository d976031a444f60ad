package app

import (
	"context"
	"fmt"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/Christopher22722/OneMillionChallenges/internal/payment"
)

// CaptureService finalizes a paid order: held cells become sold and the
// ledger entry becomes captured. The provider round trip happens before any
// row lock is taken.
type CaptureService struct {
	cells    CellRepository
	orders   OrderRepository
	provider payment.Provider
}

func NewCaptureService(cells CellRepository, orders OrderRepository, provider payment.Provider) *CaptureService {
	return &CaptureService{
		cells:    cells,
		orders:   orders,
		provider: provider,
	}
}

type CaptureResult struct {
	CaptureRef string
	CellsSold  int
}

// Capture is idempotent: a repeat call for an already-captured order whose
// cells are sold returns the recorded capture reference instead of failing.
func (s *CaptureService) Capture(ctx context.Context, orderID string) (CaptureResult, error) {
	if orderID == "" {
		return CaptureResult{}, domain.ErrOrderIDRequired
	}

	verified, err := s.provider.VerifyCapture(ctx, orderID)
	if err != nil {
		return CaptureResult{}, fmt.Errorf("verify capture: %w", err)
	}
	if verified.Status != payment.StatusCompleted {
		return CaptureResult{}, domain.ErrPaymentNotCompleted
	}

	var result CaptureResult
	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		held, err := s.cells.CountHeldByOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if held == 0 {
			if order.Status == domain.OrderStatusCaptured {
				result = CaptureResult{CaptureRef: order.CaptureRef}
				return nil
			}
			// No live reservation and not captured before: stale, forged,
			// or the hold expired and was swept away.
			return domain.ErrNoReservationForOrder
		}

		sold, err := s.cells.MarkSoldByOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := s.orders.MarkCaptured(txCtx, orderID, verified.CaptureRef); err != nil {
			return err
		}

		result = CaptureResult{CaptureRef: verified.CaptureRef, CellsSold: sold}
		return nil
	})
	if err != nil {
		return CaptureResult{}, err
	}
	return result, nil
}
