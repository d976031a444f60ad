package domain

import "time"

// GridSize is the fixed address space of the grid; valid cell ids are
// 0 <= id < GridSize. The stored schema enforces the same range check.
const GridSize = 1_000_000

type CellStatus string

const (
	CellStatusFree CellStatus = "free"
	CellStatusHeld CellStatus = "held"
	CellStatusSold CellStatus = "sold"
)

// Cell is one sellable unit of the grid. A held cell whose HoldExpiresAt is in
// the past counts as free for every claim decision, even before the sweeper
// physically resets it.
type Cell struct {
	ID            int
	Status        CellStatus
	HoldExpiresAt *time.Time
	OrderID       string
	Color         string
	ImageRef      string
	Link          string
	BuyerEmail    string
}

// Available reports whether the cell can be claimed at instant now.
func (c Cell) Available(now time.Time) bool {
	switch c.Status {
	case CellStatusFree:
		return true
	case CellStatusHeld:
		return c.HoldExpiresAt == nil || !c.HoldExpiresAt.After(now)
	default:
		return false
	}
}

// ValidCellID reports whether id falls inside the grid's address space.
func ValidCellID(id int) bool {
	return id >= 0 && id < GridSize
}

// Overlay is the public projection of an occupied cell, as served to the grid
// frontend. Image comes from the owning order (order-level image is
// authoritative); held-but-unpaid cells occupy space with no artwork.
type Overlay struct {
	ID       int
	Color    string
	ImageRef string
	Link     string
}
