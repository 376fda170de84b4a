package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPaymentDeclined = errors.New("checkout: payment declined")

// PaymentRequest is what the wizard hands to a Processor. IdempotencyKey is
// fresh per submission so a retried request can be de-duplicated downstream.
type PaymentRequest struct {
	IdempotencyKey string
	Amount         int64 // whole rupees
	CardNumber     string
	Expiry         string
	CVV            string
	CardName       string
}

type PaymentResult struct {
	Reference string
}

// Processor charges a card. Implementations must return promptly once ctx is done.
type Processor interface {
	Process(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// SimulatedProcessor approves every request after Delay unless Decline says otherwise.
type SimulatedProcessor struct {
	Delay   time.Duration
	Decline func(PaymentRequest) bool
}

const DefaultPaymentDelay = 3 * time.Second

func (p SimulatedProcessor) Process(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return PaymentResult{}, ctx.Err()
	case <-timer.C:
	}

	if p.Decline != nil && p.Decline(req) {
		return PaymentResult{}, ErrPaymentDeclined
	}
	return PaymentResult{Reference: "pay_" + uuid.NewString()}, nil
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, req PaymentRequest) (PaymentResult, error)

func (f ProcessorFunc) Process(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	return f(ctx, req)
}
