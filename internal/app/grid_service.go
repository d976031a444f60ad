package app

import (
	"context"

	"github.com/Christopher22722/OneMillionChallenges/internal/clock"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// GridService serves the read side of the grid.
type GridService struct {
	cells CellRepository
	clock clock.Clock
}

func NewGridService(cells CellRepository, clk clock.Clock) *GridService {
	return &GridService{
		cells: cells,
		clock: clk,
	}
}

// ListOccupied returns overlays for every cell a buyer cannot claim right
// now: sold cells with their artwork, plus live holds. Expired holds are
// excluded even before the sweeper resets them.
func (s *GridService) ListOccupied(ctx context.Context) ([]domain.Overlay, error) {
	return s.cells.ListOccupied(ctx, s.clock.Now())
}
