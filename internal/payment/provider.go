package payment

import "context"

// CaptureStatus values follow the provider's terminal-state vocabulary; only
// StatusCompleted finalizes a sale.
type CaptureStatus string

const (
	StatusCompleted CaptureStatus = "COMPLETED"
)

// CaptureResult is the outcome of capturing a provider order.
type CaptureResult struct {
	Status     CaptureStatus
	CaptureRef string
}

// Provider is the payment collaborator. CreateOrder opens an order for the
// given amount and returns the provider's opaque order id; VerifyCapture asks
// the provider to capture the order and reports the terminal status. Both
// calls honor ctx deadlines.
type Provider interface {
	CreateOrder(ctx context.Context, amount, currency string) (string, error)
	VerifyCapture(ctx context.Context, orderID string) (CaptureResult, error)
}
