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

type DraftRepository struct {
	pool *pgxpool.Pool
}

func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

func (r *DraftRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Create stores a new draft. expires_at is a generated column derived from
// created_at, so it is never written directly.
func (r *DraftRepository) Create(ctx context.Context, draft domain.Draft) error {
	const stmt = `
INSERT INTO drafts (draft_id, img_url, cells, color, link, buyer_email, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)`

	_, err := r.exec(ctx, stmt,
		draft.ID,
		draft.ImageRef,
		intArray(draft.Cells),
		draft.Color,
		draft.Link,
		draft.BuyerEmail,
		draft.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	return nil
}

// GetForUpdate locks the draft row so the consumed check-and-set cannot race;
// nil when no such draft exists.
func (r *DraftRepository) GetForUpdate(ctx context.Context, draftID string) (*domain.Draft, error) {
	const query = `
SELECT draft_id, img_url, cells, COALESCE(color, ''), COALESCE(link, ''), COALESCE(buyer_email, ''), created_at, expires_at, consumed
FROM drafts
WHERE draft_id = $1
FOR UPDATE`

	var d domain.Draft
	var cells []int32
	err := r.queryRow(ctx, query, draftID).
		Scan(&d.ID, &d.ImageRef, &cells, &d.Color, &d.Link, &d.BuyerEmail, &d.CreatedAt, &d.ExpiresAt, &d.Consumed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	d.Cells = make([]int, len(cells))
	for i, id := range cells {
		d.Cells[i] = int(id)
	}
	return &d, nil
}

func (r *DraftRepository) MarkConsumed(ctx context.Context, draftID string) error {
	const stmt = `UPDATE drafts SET consumed = true WHERE draft_id = $1`

	tag, err := r.exec(ctx, stmt, draftID)
	if err != nil {
		return fmt.Errorf("mark draft consumed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

// DeleteStale garbage-collects drafts that are consumed or past expiry.
func (r *DraftRepository) DeleteStale(ctx context.Context, now time.Time) (int, error) {
	const stmt = `DELETE FROM drafts WHERE consumed = true OR expires_at <= $1`

	tag, err := r.exec(ctx, stmt, now)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *DraftRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *DraftRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
