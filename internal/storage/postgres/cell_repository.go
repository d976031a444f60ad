package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CellRepository struct {
	pool *pgxpool.Pool
}

func NewCellRepository(pool *pgxpool.Pool) *CellRepository {
	return &CellRepository{pool: pool}
}

func (r *CellRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetForUpdate locks the cell row and returns its current state, or nil when
// the row does not exist yet.
func (r *CellRepository) GetForUpdate(ctx context.Context, id int) (*domain.Cell, error) {
	const query = `
SELECT id, status, hold_expires_at, COALESCE(order_id, ''), COALESCE(color, ''), COALESCE(img_url, ''), COALESCE(link, ''), COALESCE(buyer_email, '')
FROM cells
WHERE id = $1
FOR UPDATE`

	var c domain.Cell
	var status string
	err := r.queryRow(ctx, query, id).
		Scan(&c.ID, &status, &c.HoldExpiresAt, &c.OrderID, &c.Color, &c.ImageRef, &c.Link, &c.BuyerEmail)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell: %w", err)
	}
	c.Status = domain.CellStatus(status)
	return &c, nil
}

// InsertHeld creates a previously unseen cell directly in the held state.
// FOR UPDATE cannot lock a row that does not exist yet, so two transactions
// may both see the cell as absent and race here; the loser's insert hits the
// primary key and reports ErrCellContended.
func (r *CellRepository) InsertHeld(ctx context.Context, id int, expiresAt time.Time) error {
	const stmt = `
INSERT INTO cells (id, status, hold_expires_at)
VALUES ($1, 'held', $2)
ON CONFLICT (id) DO NOTHING`

	tag, err := r.exec(ctx, stmt, id, expiresAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidCellID
		}
		return fmt.Errorf("insert held cell: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCellContended
	}
	return nil
}

// Rehold re-claims an existing free or expired-held cell, refreshing the hold
// deadline and clearing any stale order reference.
func (r *CellRepository) Rehold(ctx context.Context, id int, expiresAt time.Time) error {
	const stmt = `
UPDATE cells
SET status = 'held', hold_expires_at = $2, order_id = NULL
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, expiresAt)
	if err != nil {
		return fmt.Errorf("rehold cell: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rehold cell: row %d vanished", id)
	}
	return nil
}

// StampOrder binds every held cell in ids to the given provider order.
func (r *CellRepository) StampOrder(ctx context.Context, ids []int, orderID string) error {
	const stmt = `
UPDATE cells
SET order_id = $1
WHERE id = ANY($2) AND status = 'held'`

	if _, err := r.exec(ctx, stmt, orderID, intArray(ids)); err != nil {
		return fmt.Errorf("stamp order: %w", err)
	}
	return nil
}

// CountHeldByOrder reports how many cells are still held for the order.
func (r *CellRepository) CountHeldByOrder(ctx context.Context, orderID string) (int, error) {
	const query = `SELECT COUNT(*) FROM cells WHERE order_id = $1 AND status = 'held'`

	var n int
	if err := r.queryRow(ctx, query, orderID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count held by order: %w", err)
	}
	return n, nil
}

// MarkSoldByOrder finalizes every held cell of the order.
func (r *CellRepository) MarkSoldByOrder(ctx context.Context, orderID string) (int, error) {
	const stmt = `
UPDATE cells
SET status = 'sold', hold_expires_at = NULL
WHERE order_id = $1 AND status = 'held'`

	tag, err := r.exec(ctx, stmt, orderID)
	if err != nil {
		return 0, fmt.Errorf("mark sold by order: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ClaimSold takes the cell directly into the sold state when it is free,
// expired-held, or held by the same order. Returns false when another buyer
// owns the cell.
func (r *CellRepository) ClaimSold(ctx context.Context, cell domain.Cell, now time.Time) (bool, error) {
	const stmt = `
INSERT INTO cells (id, status, order_id, color, link, buyer_email)
VALUES ($1, 'sold', $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
ON CONFLICT (id) DO UPDATE
SET status = 'sold',
    hold_expires_at = NULL,
    order_id = EXCLUDED.order_id,
    color = EXCLUDED.color,
    link = EXCLUDED.link,
    buyer_email = EXCLUDED.buyer_email
WHERE cells.status = 'free'
   OR (cells.status = 'held' AND (cells.hold_expires_at IS NULL OR cells.hold_expires_at <= $6 OR cells.order_id = EXCLUDED.order_id))`

	tag, err := r.exec(ctx, stmt, cell.ID, cell.OrderID, cell.Color, cell.Link, cell.BuyerEmail, now)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.ErrInvalidCellID
		}
		return false, fmt.Errorf("claim sold cell: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseExpired resets every held cell whose deadline has passed back to
// free. Sold cells and live holds are untouched.
func (r *CellRepository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	const stmt = `
UPDATE cells
SET status = 'free', hold_expires_at = NULL, order_id = NULL
WHERE status = 'held' AND hold_expires_at < $1`

	tag, err := r.exec(ctx, stmt, now)
	if err != nil {
		return 0, fmt.Errorf("release expired holds: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListOccupied returns overlays for sold cells and for holds still alive at
// now. Artwork resolves through the owning order (order-level image wins over
// the legacy per-cell column).
func (r *CellRepository) ListOccupied(ctx context.Context, now time.Time) ([]domain.Overlay, error) {
	const query = `
SELECT c.id,
       COALESCE(c.color, ''),
       CASE WHEN c.status = 'sold' THEN COALESCE(o.img_url, c.img_url, '') ELSE '' END,
       COALESCE(c.link, '')
FROM cells c
LEFT JOIN orders o ON o.order_id = c.order_id
WHERE c.status = 'sold' OR (c.status = 'held' AND c.hold_expires_at > $1)
ORDER BY c.id`

	rows, err := r.query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list occupied: %w", err)
	}
	defer rows.Close()

	var overlays []domain.Overlay
	for rows.Next() {
		var ov domain.Overlay
		if err := rows.Scan(&ov.ID, &ov.Color, &ov.ImageRef, &ov.Link); err != nil {
			return nil, fmt.Errorf("scan occupied: %w", err)
		}
		overlays = append(overlays, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list occupied: %w", err)
	}
	return overlays, nil
}

func (r *CellRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CellRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CellRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func intArray(ids []int) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}
