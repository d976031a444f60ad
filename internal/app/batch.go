package app

import (
	"fmt"
	"sort"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// normalizeBatch validates a requested cell batch and returns it deduplicated
// and sorted ascending. The fixed ordering is what keeps overlapping batches
// from deadlocking on row locks.
func normalizeBatch(ids []int, maxBatch int) ([]int, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(ids) > maxBatch {
		return nil, domain.ErrBatchTooLarge
	}

	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !domain.ValidCellID(id) {
			return nil, domain.ErrInvalidCellID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

// formatAmount renders a price in the two-decimal string form the payment
// provider expects.
func formatAmount(unitPrice float64, count int) string {
	return fmt.Sprintf("%.2f", unitPrice*float64(count))
}
