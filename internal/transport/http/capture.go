package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// OrderCapturer is the minimal interface needed to capture an order.
type OrderCapturer interface {
	Capture(ctx context.Context, orderID string) (app.CaptureResult, error)
}

// HandleCapture returns an HTTP handler for finalizing paid orders.
func HandleCapture(svc OrderCapturer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req captureRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Capture(r.Context(), req.OrderID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderIDRequired):
				writeError(w, http.StatusBadRequest, codeOrderIDRequired, err.Error())
			case errors.Is(err, domain.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case errors.Is(err, domain.ErrPaymentNotCompleted):
				writeError(w, http.StatusConflict, codePaymentNotCompleted, err.Error())
			case errors.Is(err, domain.ErrNoReservationForOrder):
				writeError(w, http.StatusConflict, codeNoReservationForOrder, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, captureResponse{
			CaptureRef: res.CaptureRef,
			CellsSold:  res.CellsSold,
		})
	}
}

type captureRequest struct {
	OrderID string `json:"order_id"`
}

type captureResponse struct {
	CaptureRef string `json:"capture_ref"`
	CellsSold  int    `json:"cells_sold"`
}
