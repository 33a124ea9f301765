package pricing

import (
	"context"

	"ordercore/domain/order"

	"github.com/google/uuid"
)

// LocalPaymentProcessor is the reference PaymentProcessor: it accepts
// any token and mints an invoice number from a fresh UUID, the way the
// teacher generates order and item identifiers. It never fails and has
// no notion of token reuse; payment idempotency is out of scope here.
type LocalPaymentProcessor struct{}

// PayWithToken always succeeds, returning an invoice with a freshly
// generated number.
func (LocalPaymentProcessor) PayWithToken(_ context.Context, _ order.PaymentToken) (order.Invoice, error) {
	return order.Invoice{Number: uuid.New().String()}, nil
}

var _ PaymentProcessor = LocalPaymentProcessor{}
