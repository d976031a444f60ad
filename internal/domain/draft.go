package domain

import (
	"strings"
	"time"
)

// Draft is a staged artwork submission awaiting promotion into an order.
// It is consumed at most once; an expired or consumed draft is inert.
type Draft struct {
	ID         string
	ImageRef   string
	Cells      []int
	Color      string
	Link       string
	BuyerEmail string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Consumed   bool
}

// Expired reports whether the draft's TTL has elapsed at instant now.
func (d Draft) Expired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}

// ValidImageRef accepts only data URLs carrying an image, or absolute
// http(s) URLs.
func ValidImageRef(ref string) bool {
	if strings.HasPrefix(ref, "data:image/") {
		return true
	}
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
