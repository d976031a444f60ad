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

func TestHandlePurchase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		result         app.PurchaseResult
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "all cells saved",
			body:           `{"order_id":"PP-1","cells":[1,2],"image_ref":"https://example.com/a.png"}`,
			result:         app.PurchaseResult{Saved: 2, ImageSet: true},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"saved":2`,
		},
		{
			name:           "partial success answers 207",
			body:           `{"order_id":"PP-1","cells":[1,2,3]}`,
			result:         app.PurchaseResult{Saved: 1, Conflicts: []int{2, 3}},
			expectedStatus: http.StatusMultiStatus,
			expectedSubstr: `"conflicts":[2,3]`,
		},
		{
			name:           "draft flow reports used_draft",
			body:           `{"order_id":"PP-1","draft_id":"d1"}`,
			result:         app.PurchaseResult{Saved: 4, UsedDraft: true, ImageSet: true},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"used_draft":true`,
		},
		{
			name:           "invalid json",
			body:           `{"order_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing order id",
			body:           `{"cells":[1]}`,
			serviceErr:     domain.ErrOrderIDRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"order_id_required"`,
		},
		{
			name:           "invalid image ref",
			body:           `{"order_id":"PP-1","cells":[1],"image_ref":"ftp://x"}`,
			serviceErr:     domain.ErrInvalidImageRef,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_image_ref"`,
		},
		{
			name:           "batch too large",
			body:           `{"order_id":"PP-1","cells":[1]}`,
			serviceErr:     domain.ErrBatchTooLarge,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "draft not found",
			body:           `{"order_id":"PP-1","draft_id":"missing"}`,
			serviceErr:     domain.ErrDraftNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"draft_not_found"`,
		},
		{
			name:           "draft expired",
			body:           `{"order_id":"PP-1","draft_id":"old"}`,
			serviceErr:     domain.ErrDraftExpired,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"draft_expired"`,
		},
		{
			name:           "draft consumed",
			body:           `{"order_id":"PP-1","draft_id":"used"}`,
			serviceErr:     domain.ErrDraftConsumed,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"draft_consumed"`,
		},
		{
			name:           "internal error",
			body:           `{"order_id":"PP-1","cells":[1]}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPurchaseService{
				result: tt.result,
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/api/purchase", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler := HandlePurchase(svc)
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

type stubPurchaseService struct {
	result app.PurchaseResult
	err    error
}

func (s *stubPurchaseService) Purchase(_ context.Context, _ app.PurchaseInput) (app.PurchaseResult, error) {
	if s.err != nil {
		return app.PurchaseResult{}, s.err
	}
	return s.result, nil
}
