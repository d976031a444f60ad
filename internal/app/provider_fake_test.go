package app

import (
	"context"
	"fmt"

	"github.com/Christopher22722/OneMillionChallenges/internal/payment"
)

type fakeProvider struct {
	createErr     error
	createdCount  int
	lastAmount    string
	lastCurrency  string
	verifyErr     error
	verifyStatus  payment.CaptureStatus
	verifyRef     string
	verifiedOrder string
}

func (f *fakeProvider) CreateOrder(_ context.Context, amount, currency string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdCount++
	f.lastAmount = amount
	f.lastCurrency = currency
	return fmt.Sprintf("PP-ORDER-%d", f.createdCount), nil
}

func (f *fakeProvider) VerifyCapture(_ context.Context, orderID string) (payment.CaptureResult, error) {
	if f.verifyErr != nil {
		return payment.CaptureResult{}, f.verifyErr
	}
	f.verifiedOrder = orderID
	status := f.verifyStatus
	if status == "" {
		status = payment.StatusCompleted
	}
	ref := f.verifyRef
	if ref == "" {
		ref = "CAPTURE-1"
	}
	return payment.CaptureResult{Status: status, CaptureRef: ref}, nil
}
