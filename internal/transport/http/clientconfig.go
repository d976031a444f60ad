package http

import "net/http"

// ClientConfig is the public configuration the frontend needs to start a
// checkout.
type ClientConfig struct {
	PayPalClientID string  `json:"paypal_client_id"`
	Currency       string  `json:"currency"`
	UnitPrice      float64 `json:"unit_price"`
}

// HandleClientConfig returns an HTTP handler exposing checkout configuration.
func HandleClientConfig(cfg ClientConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PayPalClientID == "" {
			writeError(w, http.StatusInternalServerError, codeInternalError, "payment client id not configured")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}
