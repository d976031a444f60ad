package app

import (
	"context"

	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
)

// SweepService reclaims expired holds and garbage-collects stale drafts.
// Correctness never depends on it running, since claim logic treats expired
// holds as free on its own, but sweeping keeps the grid's occupied view
// prompt and the drafts table small.
type SweepService struct {
	cells  CellRepository
	drafts DraftRepository
	clock  clock.Clock
}

func NewSweepService(cells CellRepository, drafts DraftRepository, clk clock.Clock) *SweepService {
	return &SweepService{
		cells:  cells,
		drafts: drafts,
		clock:  clk,
	}
}

type SweepResult struct {
	Released      int
	DraftsDeleted int
}

// Sweep releases every hold whose deadline passed and deletes consumed or
// expired drafts. Each statement re-checks its condition under the row locks
// it takes, so running concurrently with reservations is safe.
func (s *SweepService) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.clock.Now()

	released, err := s.cells.ReleaseExpired(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}
	deleted, err := s.drafts.DeleteStale(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}
	return SweepResult{Released: released, DraftsDeleted: deleted}, nil
}
