// Package pricing holds the shipping, tax, and payment contracts the
// command service injects at the command boundary, and the reference
// implementations the end-to-end tests run against. None of these are
// called by the aggregate itself: resolving them outside the aggregate
// is what keeps the aggregate a pure, deterministic function of its
// state and command, which is what makes replay safe.
package pricing

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/shared"
)

// ShippingCalculator computes a total shipping cost for a cart being
// delivered to an address. Pure and total: it must not fail and must not
// depend on anything but its arguments.
type ShippingCalculator interface {
	Cost(cart order.NonEmptyCart, address order.DeliveryAddress) shared.Money
}

// TaxCalculator computes a total tax amount for a cart given the
// shipping cost already chosen. Pure and total, same constraints as
// ShippingCalculator.
type TaxCalculator interface {
	Cost(cart order.NonEmptyCart, shipping shared.Money) shared.Money
}

// PaymentProcessor exchanges a payment token for an invoice. It may
// contact an external gateway, but from the aggregate's perspective is
// synchronous and total: a fallible or idempotent variant is out of
// scope here.
type PaymentProcessor interface {
	PayWithToken(ctx context.Context, token order.PaymentToken) (order.Invoice, error)
}

// LocalShippingCalculator is the reference shipping calculator: a flat
// rate regardless of cart contents or destination, as the reference
// local calculator does.
type LocalShippingCalculator struct{}

// Cost always returns 200 cents CAD.
func (LocalShippingCalculator) Cost(order.NonEmptyCart, order.DeliveryAddress) shared.Money {
	return shared.NewMoney(200, shared.CAD)
}

// LocalTaxCalculator is the reference tax calculator: a flat rate
// regardless of cart contents or the shipping cost already chosen.
type LocalTaxCalculator struct{}

// Cost always returns 130 cents CAD.
func (LocalTaxCalculator) Cost(order.NonEmptyCart, shared.Money) shared.Money {
	return shared.NewMoney(130, shared.CAD)
}

var _ ShippingCalculator = LocalShippingCalculator{}
var _ TaxCalculator = LocalTaxCalculator{}
