package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// CellReserver is the minimal interface needed to reserve a cell batch.
type CellReserver interface {
	Reserve(ctx context.Context, in app.ReserveInput) (app.ReserveResult, error)
}

// HandleReserve returns an HTTP handler for batch reservations.
func HandleReserve(svc CellReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reserveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Reserve(r.Context(), app.ReserveInput{
			Cells:      req.Cells,
			BuyerEmail: req.BuyerEmail,
		})
		if err != nil {
			var conflict *domain.ConflictError
			switch {
			case errors.As(err, &conflict):
				code := codeCellContended
				if len(conflict.Sold) > 0 {
					code = codeCellUnavailable
				}
				writeErrorConflicts(w, http.StatusConflict, code, err.Error(), conflict.Cells())
			case errors.Is(err, domain.ErrEmptyBatch),
				errors.Is(err, domain.ErrInvalidCellID),
				errors.Is(err, domain.ErrBatchTooLarge):
				writeError(w, http.StatusBadRequest, validationCode(err), err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, reserveResponse{
			OrderID:   res.OrderID,
			Amount:    res.Amount,
			Currency:  res.Currency,
			ExpiresAt: res.ExpiresAt,
		})
	}
}

func validationCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyBatch):
		return codeEmptyBatch
	case errors.Is(err, domain.ErrInvalidCellID):
		return codeInvalidCellID
	case errors.Is(err, domain.ErrBatchTooLarge):
		return codeBatchTooLarge
	default:
		return codeInvalidRequestBody
	}
}

type reserveRequest struct {
	Cells      []int  `json:"cells"`
	BuyerEmail string `json:"buyer_email,omitempty"`
}

type reserveResponse struct {
	OrderID   string    `json:"order_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	ExpiresAt time.Time `json:"expires_at"`
}
