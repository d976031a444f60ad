package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"

	requestTimeout = 15 * time.Second
)

// PayPal implements Provider against the checkout-orders v2 REST API using
// client-credentials OAuth. Access tokens are cached until shortly before
// expiry.
type PayPal struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPal builds a client for env "live" or "sandbox" (default).
func NewPayPal(env, clientID, clientSecret string) *PayPal {
	base := sandboxBaseURL
	if strings.EqualFold(env, "live") {
		base = liveBaseURL
	}
	return &PayPal{
		baseURL:      base,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

func (p *PayPal) CreateOrder(ctx context.Context, amount, currency string) (string, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": map[string]string{"currency_code": currency, "value": amount}},
		},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, "/v2/checkout/orders", body, &resp); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create order: provider returned no order id")
	}
	return resp.ID, nil
}

func (p *PayPal) VerifyCapture(ctx context.Context, orderID string) (CaptureResult, error) {
	var resp struct {
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}

	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := p.post(ctx, path, map[string]any{}, &resp); err != nil {
		return CaptureResult{}, fmt.Errorf("capture order: %w", err)
	}

	result := CaptureResult{Status: CaptureStatus(resp.Status)}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		result.CaptureRef = resp.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return result, nil
}

func (p *PayPal) post(ctx context.Context, path string, body, out any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider responded %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *PayPal) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oauth token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oauth token: provider responded %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("oauth token: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("oauth token: empty access token")
	}

	p.accessToken = body.AccessToken
	// Refresh a minute early so in-flight requests never carry a dead token.
	p.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return p.accessToken, nil
}
