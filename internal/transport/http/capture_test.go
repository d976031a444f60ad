package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

func TestHandleCapture(t *testing.T) {
	t.Parallel()

	successResult := app.CaptureResult{
		CaptureRef: "CAPTURE-1",
		CellsSold:  3,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"order_id":"PP-ORDER-1"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"capture_ref":"CAPTURE-1"`,
		},
		{
			name:           "invalid json",
			body:           `{"order_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing order id",
			body:           `{}`,
			serviceErr:     domain.ErrOrderIDRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"order_id_required"`,
		},
		{
			name:           "order not found",
			body:           `{"order_id":"PP-MISSING"}`,
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"order_not_found"`,
		},
		{
			name:           "payment not completed",
			body:           `{"order_id":"PP-ORDER-1"}`,
			serviceErr:     domain.ErrPaymentNotCompleted,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"payment_not_completed"`,
		},
		{
			name:           "no reservation",
			body:           `{"order_id":"PP-ORDER-1"}`,
			serviceErr:     domain.ErrNoReservationForOrder,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"no_reservation_for_order"`,
		},
		{
			name:           "internal error",
			body:           `{"order_id":"PP-ORDER-1"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubCaptureService{
				result: successResult,
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/api/capture", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler := HandleCapture(svc)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

type stubCaptureService struct {
	result app.CaptureResult
	err    error
}

func (s *stubCaptureService) Capture(_ context.Context, _ string) (app.CaptureResult, error) {
	if s.err != nil {
		return app.CaptureResult{}, s.err
	}
	return s.result, nil
}
