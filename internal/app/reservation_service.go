package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/Christopher22722/OneMillionChallenges/internal/payment"
)

const (
	defaultHoldTTL   = 10 * time.Minute
	defaultUnitPrice = 1.0
	defaultCurrency  = "USD"
	defaultMaxBatch  = 25000
)

// ReservationService claims batches of cells under row locks and opens a
// payment-provider order for the batch, as one atomic unit.
type ReservationService struct {
	cells     CellRepository
	orders    OrderRepository
	provider  payment.Provider
	clock     clock.Clock
	holdTTL   time.Duration
	unitPrice float64
	currency  string
	maxBatch  int
}

type ReservationOption func(*ReservationService)

// WithHoldTTL overrides how long a claimed batch stays held awaiting payment.
func WithHoldTTL(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithPricing overrides the per-cell price and currency.
func WithPricing(unitPrice float64, currency string) ReservationOption {
	return func(s *ReservationService) {
		if unitPrice > 0 {
			s.unitPrice = unitPrice
		}
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithMaxBatch caps how many cells one reservation may claim.
func WithMaxBatch(n int) ReservationOption {
	return func(s *ReservationService) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

func NewReservationService(cells CellRepository, orders OrderRepository, provider payment.Provider, clk clock.Clock, opts ...ReservationOption) *ReservationService {
	svc := &ReservationService{
		cells:     cells,
		orders:    orders,
		provider:  provider,
		clock:     clk,
		holdTTL:   defaultHoldTTL,
		unitPrice: defaultUnitPrice,
		currency:  defaultCurrency,
		maxBatch:  defaultMaxBatch,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReserveInput struct {
	Cells      []int
	BuyerEmail string
}

type ReserveResult struct {
	OrderID   string
	Amount    string
	Currency  string
	ExpiresAt time.Time
}

// Reserve claims every cell in the batch or none of them. Cells are locked in
// ascending id order; a cell sold, or held by someone else with a live
// deadline, fails the whole batch with a ConflictError listing every losing
// id. Only after all rows are claimed is the provider order created; a
// provider failure rolls the claims back, so no partial hold ever commits.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (ReserveResult, error) {
	batch, err := normalizeBatch(in.Cells, s.maxBatch)
	if err != nil {
		return ReserveResult{}, err
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.holdTTL)
	amount := formatAmount(s.unitPrice, len(batch))

	var result ReserveResult
	err = s.cells.WithTx(ctx, func(txCtx context.Context) error {
		conflict := &domain.ConflictError{}
		for _, id := range batch {
			cell, err := s.cells.GetForUpdate(txCtx, id)
			if err != nil {
				return err
			}

			switch {
			case cell == nil:
				err := s.cells.InsertHeld(txCtx, id, expiresAt)
				if errors.Is(err, domain.ErrCellContended) {
					// Another transaction inserted the row between our lookup
					// and the insert. Treat it like any other live hold.
					conflict.Held = append(conflict.Held, id)
					continue
				}
				if err != nil {
					return err
				}
			case cell.Status == domain.CellStatusSold:
				conflict.Sold = append(conflict.Sold, id)
			case cell.Status == domain.CellStatusHeld && !cell.Available(now):
				conflict.Held = append(conflict.Held, id)
			default:
				// Free, or a hold that already ran out.
				if err := s.cells.Rehold(txCtx, id, expiresAt); err != nil {
					return err
				}
			}
		}
		if len(conflict.Sold) > 0 || len(conflict.Held) > 0 {
			return conflict
		}

		orderID, err := s.provider.CreateOrder(txCtx, amount, s.currency)
		if err != nil {
			return fmt.Errorf("create payment order: %w", err)
		}

		order := domain.Order{
			ID:         orderID,
			Amount:     amount,
			Currency:   s.currency,
			Status:     domain.OrderStatusCreated,
			BuyerEmail: in.BuyerEmail,
			CreatedAt:  now,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}
		if err := s.cells.StampOrder(txCtx, batch, orderID); err != nil {
			return err
		}

		result = ReserveResult{
			OrderID:   orderID,
			Amount:    amount,
			Currency:  s.currency,
			ExpiresAt: expiresAt,
		}
		return nil
	})
	if err != nil {
		return ReserveResult{}, err
	}
	return result, nil
}
