package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
	"github.com/go-chi/chi/v5"
)

// DraftSaver is the minimal interface needed to stage a draft.
type DraftSaver interface {
	SaveDraft(ctx context.Context, in app.SaveDraftInput) (domain.Draft, error)
}

// HandleSaveDraft returns an HTTP handler for staging artwork drafts.
func HandleSaveDraft(svc DraftSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveDraftRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		draft, err := svc.SaveDraft(r.Context(), app.SaveDraftInput{
			ImageRef:   req.ImageRef,
			Cells:      req.Cells,
			Color:      req.Color,
			Link:       req.Link,
			BuyerEmail: req.BuyerEmail,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidImageRef):
				writeError(w, http.StatusBadRequest, codeInvalidImageRef, err.Error())
			case errors.Is(err, domain.ErrEmptyBatch),
				errors.Is(err, domain.ErrInvalidCellID),
				errors.Is(err, domain.ErrBatchTooLarge):
				writeError(w, http.StatusBadRequest, validationCode(err), err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, saveDraftResponse{
			DraftID:   draft.ID,
			CellCount: len(draft.Cells),
			ExpiresAt: draft.ExpiresAt,
		})
	}
}

// DraftPromoter is the minimal interface needed to promote a draft into an
// order's artwork.
type DraftPromoter interface {
	PromoteDraft(ctx context.Context, draftID, orderID string) (app.PromoteDraftResult, error)
}

// HandlePromoteDraft returns an HTTP handler that copies a staged draft onto
// an existing order.
func HandlePromoteDraft(svc DraftPromoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promoteDraftRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.PromoteDraft(r.Context(), chi.URLParam(r, "draftID"), req.OrderID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderIDRequired):
				writeError(w, http.StatusBadRequest, codeOrderIDRequired, err.Error())
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
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

		writeJSON(w, http.StatusOK, promoteDraftResponse{
			ImageRef:          res.ImageRef,
			PromotedCellCount: res.PromotedCellCount,
			ImageSet:          res.ImageSet,
		})
	}
}

type saveDraftRequest struct {
	ImageRef   string `json:"image_ref"`
	Cells      []int  `json:"cells"`
	Color      string `json:"color,omitempty"`
	Link       string `json:"link,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
}

type saveDraftResponse struct {
	DraftID   string    `json:"draft_id"`
	CellCount int       `json:"cell_count"`
	ExpiresAt time.Time `json:"expires_at"`
}

type promoteDraftRequest struct {
	OrderID string `json:"order_id"`
}

type promoteDraftResponse struct {
	ImageRef          string `json:"image_ref"`
	PromotedCellCount int    `json:"promoted_cell_count"`
	ImageSet          bool   `json:"image_set"`
}
