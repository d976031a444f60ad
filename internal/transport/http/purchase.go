package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// Purchaser is the minimal interface needed to record a confirmed purchase.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
}

// HandlePurchase returns an HTTP handler for purchase-on-confirmation flows.
// Partial success (some cells already owned) answers 207 with the conflict
// list, matching the claim-what-you-can contract.
func HandlePurchase(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Purchase(r.Context(), app.PurchaseInput{
			OrderID:    req.OrderID,
			DraftID:    req.DraftID,
			Cells:      req.Cells,
			ImageRef:   req.ImageRef,
			Color:      req.Color,
			Link:       req.Link,
			BuyerEmail: req.BuyerEmail,
			Amount:     req.Amount,
			Currency:   req.Currency,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderIDRequired):
				writeError(w, http.StatusBadRequest, codeOrderIDRequired, err.Error())
			case errors.Is(err, domain.ErrInvalidImageRef):
				writeError(w, http.StatusBadRequest, codeInvalidImageRef, err.Error())
			case errors.Is(err, domain.ErrEmptyBatch),
				errors.Is(err, domain.ErrInvalidCellID),
				errors.Is(err, domain.ErrBatchTooLarge):
				writeError(w, http.StatusBadRequest, validationCode(err), err.Error())
			case errors.Is(err, domain.ErrDraftNotFound):
				writeError(w, http.StatusNotFound, codeDraftNotFound, err.Error())
			case errors.Is(err, domain.ErrDraftExpired):
				writeError(w, http.StatusConflict, codeDraftExpired, err.Error())
			case errors.Is(err, domain.ErrDraftConsumed):
				writeError(w, http.StatusConflict, codeDraftConsumed, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		status := http.StatusOK
		if len(res.Conflicts) > 0 {
			status = http.StatusMultiStatus
		}
		writeJSON(w, status, purchaseResponse{
			Saved:     res.Saved,
			Conflicts: res.Conflicts,
			UsedDraft: res.UsedDraft,
			ImageSet:  res.ImageSet,
		})
	}
}

type purchaseRequest struct {
	OrderID    string `json:"order_id"`
	DraftID    string `json:"draft_id,omitempty"`
	Cells      []int  `json:"cells,omitempty"`
	ImageRef   string `json:"image_ref,omitempty"`
	Color      string `json:"color,omitempty"`
	Link       string `json:"link,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

type purchaseResponse struct {
	Saved     int   `json:"saved"`
	Conflicts []int `json:"conflicts"`
	UsedDraft bool  `json:"used_draft"`
	ImageSet  bool  `json:"image_set"`
}
