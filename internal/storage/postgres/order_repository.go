package postgres

import (
	"context"
	"fmt"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (order_id, amount, currency, status, buyer_email, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.Amount,
		order.Currency,
		order.Status,
		order.BuyerEmail,
		order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create order: duplicate order id %s", order.ID)
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// Ensure records the order if it is not known yet; an existing row is left
// untouched.
func (r *OrderRepository) Ensure(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (order_id, amount, currency, status, buyer_email, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
ON CONFLICT (order_id) DO NOTHING`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.Amount,
		order.Currency,
		order.Status,
		order.BuyerEmail,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ensure order: %w", err)
	}
	return nil
}

// GetForUpdate locks the order row; nil when the order is unknown.
func (r *OrderRepository) GetForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	const query = `
SELECT order_id, amount::text, currency, status, COALESCE(capture_ref, ''), COALESCE(buyer_email, ''), COALESCE(img_url, ''), created_at
FROM orders
WHERE order_id = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, orderID).
		Scan(&o.ID, &o.Amount, &o.Currency, &status, &o.CaptureRef, &o.BuyerEmail, &o.ImageRef, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// SetImageIfUnset writes the order's image exactly once; the conditional
// update makes concurrent writers race safely, first one wins.
func (r *OrderRepository) SetImageIfUnset(ctx context.Context, orderID, imageRef string) (bool, error) {
	const stmt = `
UPDATE orders
SET img_url = $2
WHERE order_id = $1 AND img_url IS NULL`

	tag, err := r.exec(ctx, stmt, orderID, imageRef)
	if err != nil {
		return false, fmt.Errorf("set order image: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) MarkCaptured(ctx context.Context, orderID, captureRef string) error {
	const stmt = `
UPDATE orders
SET status = 'captured', capture_ref = $2
WHERE order_id = $1`

	tag, err := r.exec(ctx, stmt, orderID, captureRef)
	if err != nil {
		return fmt.Errorf("mark captured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
