package app

import (
	"context"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// CellRepository is the store contract for grid cells. WithTx runs fn inside
// one transaction; every other method joins the transaction carried in ctx
// when one is present.
type CellRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetForUpdate(ctx context.Context, id int) (*domain.Cell, error)
	InsertHeld(ctx context.Context, id int, expiresAt time.Time) error
	Rehold(ctx context.Context, id int, expiresAt time.Time) error
	StampOrder(ctx context.Context, ids []int, orderID string) error
	CountHeldByOrder(ctx context.Context, orderID string) (int, error)
	MarkSoldByOrder(ctx context.Context, orderID string) (int, error)
	ClaimSold(ctx context.Context, cell domain.Cell, now time.Time) (bool, error)
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)
	ListOccupied(ctx context.Context, now time.Time) ([]domain.Overlay, error)
}

// OrderRepository is the store contract for the order ledger.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, order domain.Order) error
	Ensure(ctx context.Context, order domain.Order) error
	GetForUpdate(ctx context.Context, orderID string) (*domain.Order, error)
	SetImageIfUnset(ctx context.Context, orderID, imageRef string) (bool, error)
	MarkCaptured(ctx context.Context, orderID, captureRef string) error
}

// DraftRepository is the store contract for staged artwork.
type DraftRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, draft domain.Draft) error
	GetForUpdate(ctx context.Context, draftID string) (*domain.Draft, error)
	MarkConsumed(ctx context.Context, draftID string) error
	DeleteStale(ctx context.Context, now time.Time) (int, error)
}
