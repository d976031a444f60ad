package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleClientConfig(t *testing.T) {
	t.Parallel()

	t.Run("exposes checkout configuration", func(t *testing.T) {
		t.Parallel()
		cfg := ClientConfig{
			PayPalClientID: "client-abc",
			Currency:       "USD",
			UnitPrice:      1,
		}
		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		rec := httptest.NewRecorder()

		HandleClientConfig(cfg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{`"paypal_client_id":"client-abc"`, `"currency":"USD"`, `"unit_price":1`} {
			if !strings.Contains(body, want) {
				t.Fatalf("expected %q in %q", want, body)
			}
		}
	})

	t.Run("missing client id answers 500", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
		rec := httptest.NewRecorder()

		HandleClientConfig(ClientConfig{Currency: "USD"}).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
	})
}
