package order

import "ordercore/domain/shared"

// OrderEntityCommand is the aggregate's own command vocabulary, distinct
// from the service-level commands of service.CommandService. Pricing is
// already resolved by the caller (the command service) before any of
// these reach the aggregate, which keeps the aggregate a pure function
// of its state and the command — critical for deterministic replay.
type OrderEntityCommand interface {
	isOrderEntityCommand()
}

// AddCart sets the cart on an order with no address yet, or replaces it
// while still cartless-of-address.
type AddCart struct {
	Cart NonEmptyCart
}

func (AddCart) isOrderEntityCommand() {}

// UpdateCart replaces the cart once an address already exists, carrying
// shipping and tax the caller has already recomputed against that
// address.
type UpdateCart struct {
	Cart     NonEmptyCart
	Shipping shared.Money
	Tax      shared.Money
}

func (UpdateCart) isOrderEntityCommand() {}

// UpdateDeliveryAddress sets or replaces the delivery address, carrying
// shipping and tax the caller has already computed against the current
// cart.
type UpdateDeliveryAddress struct {
	Address  DeliveryAddress
	Shipping shared.Money
	Tax      shared.Money
}

func (UpdateDeliveryAddress) isOrderEntityCommand() {}

// Complete closes the order with an invoice the caller has already
// obtained from the PaymentProcessor.
type Complete struct {
	Invoice Invoice
}

func (Complete) isOrderEntityCommand() {}
