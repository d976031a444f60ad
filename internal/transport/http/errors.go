package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed      = "method_not_allowed"
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeEmptyBatch            = "empty_batch"
	codeBatchTooLarge         = "batch_too_large"
	codeInvalidCellID         = "invalid_cell_id"
	codeInvalidImageRef       = "invalid_image_ref"
	codeCellUnavailable       = "cell_unavailable"
	codeCellContended         = "cell_contended"
	codeOrderIDRequired       = "order_id_required"
	codeOrderNotFound         = "order_not_found"
	codePaymentNotCompleted   = "payment_not_completed"
	codeNoReservationForOrder = "no_reservation_for_order"
	codeDraftNotFound         = "draft_not_found"
	codeDraftExpired          = "draft_expired"
	codeDraftConsumed         = "draft_consumed"
	codeForbidden             = "forbidden"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Conflicts []int  `json:"conflicts,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorConflicts(w, status, code, msg, nil)
}

// writeErrorConflicts lets batch failures report which cells lost, so the
// caller can adjust its selection and retry.
func writeErrorConflicts(w http.ResponseWriter, status int, code, msg string, conflicts []int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:     msg,
		Code:      code,
		Conflicts: conflicts,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
