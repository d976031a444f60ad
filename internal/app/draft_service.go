package app

import (
	"context"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/google/uuid"
)

// DraftTTL mirrors the drafts table's generated expires_at interval.
const DraftTTL = 24 * time.Hour

// DraftService stages artwork submissions ahead of purchase.
type DraftService struct {
	drafts   DraftRepository
	clock    clock.Clock
	maxBatch int
}

func NewDraftService(drafts DraftRepository, clk clock.Clock, maxBatch int) *DraftService {
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}
	return &DraftService{
		drafts:   drafts,
		clock:    clk,
		maxBatch: maxBatch,
	}
}

type SaveDraftInput struct {
	ImageRef   string
	Cells      []int
	Color      string
	Link       string
	BuyerEmail string
}

// SaveDraft validates and stores a staged submission, returning it with its
// generated id and expiry.
func (s *DraftService) SaveDraft(ctx context.Context, in SaveDraftInput) (domain.Draft, error) {
	if !domain.ValidImageRef(in.ImageRef) {
		return domain.Draft{}, domain.ErrInvalidImageRef
	}
	cells, err := normalizeBatch(in.Cells, s.maxBatch)
	if err != nil {
		return domain.Draft{}, err
	}

	now := s.clock.Now()
	draft := domain.Draft{
		ID:         uuid.NewString(),
		ImageRef:   in.ImageRef,
		Cells:      cells,
		Color:      in.Color,
		Link:       in.Link,
		BuyerEmail: in.BuyerEmail,
		CreatedAt:  now,
		ExpiresAt:  now.Add(DraftTTL),
	}

	if err := s.drafts.Create(ctx, draft); err != nil {
		return domain.Draft{}, err
	}
	return draft, nil
}
