package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmptyBatch            = errors.New("empty cell batch")
	ErrBatchTooLarge         = errors.New("cell batch too large")
	ErrInvalidCellID         = errors.New("cell id out of range")
	ErrInvalidImageRef       = errors.New("invalid image reference")
	ErrCellUnavailable       = errors.New("cell already sold")
	ErrCellContended         = errors.New("cell held by another buyer")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderIDRequired       = errors.New("order id required")
	ErrPaymentNotCompleted   = errors.New("payment not completed")
	ErrNoReservationForOrder = errors.New("no reservation for order")
	ErrDraftNotFound         = errors.New("draft not found")
	ErrDraftExpired          = errors.New("draft expired")
	ErrDraftConsumed         = errors.New("draft already consumed")
)

// ConflictError is a batch-level claim failure listing every cell that could
// not be taken, split by cause. Sold cells are permanent losses; Held cells
// are transient and may free up when their hold expires.
type ConflictError struct {
	Sold []int
	Held []int
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString("cell conflict:")
	if len(e.Sold) > 0 {
		b.WriteString(" sold ")
		b.WriteString(joinIDs(e.Sold))
	}
	if len(e.Held) > 0 {
		b.WriteString(" held ")
		b.WriteString(joinIDs(e.Held))
	}
	return b.String()
}

// Is makes the conflict match ErrCellUnavailable when any cell was sold, and
// ErrCellContended when the batch only hit live holds.
func (e *ConflictError) Is(target error) bool {
	if target == ErrCellUnavailable {
		return len(e.Sold) > 0
	}
	if target == ErrCellContended {
		return len(e.Sold) == 0 && len(e.Held) > 0
	}
	return false
}

// Cells returns every conflicting id, sold and held, in ascending order.
func (e *ConflictError) Cells() []int {
	all := make([]int, 0, len(e.Sold)+len(e.Held))
	all = append(all, e.Sold...)
	all = append(all, e.Held...)
	sort.Ints(all)
	return all
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ","))
}
