package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "created"
	OrderStatusCaptured OrderStatus = "captured"
)

// Order mirrors a payment-provider order. ID is the provider's opaque order
// id. ImageRef is set at most once (first writer wins); CaptureRef is recorded
// when the order transitions to captured and re-returned on idempotent repeat
// captures. Orders are never deleted.
type Order struct {
	ID         string
	Amount     string
	Currency   string
	Status     OrderStatus
	CaptureRef string
	BuyerEmail string
	ImageRef   string
	CreatedAt  time.Time
}
