package order

import "ordercore/domain/shared"

// OrderEvent is the tagged variant of everything that can happen to an
// order. Both replay and live command handling apply events through the
// same applyEvent function, so history and live behaviour cannot
// diverge; see the applicability table in applyEvent.
type OrderEvent interface {
	// Kind names the variant for tagged-union encoding at the journal
	// boundary. It must round-trip: encoding then decoding a Kind must
	// reproduce the same concrete type.
	Kind() string
}

// UpdatedCart is produced the first time a cart is set, or any time it
// is replaced while the order has not yet taken a delivery address.
type UpdatedCart struct {
	Cart NonEmptyCart
}

func (UpdatedCart) Kind() string { return "UpdatedCart" }

// UpdatedDeliveryAddress is produced the first time an address is set,
// or when it is replaced while still in WithAddress.
type UpdatedDeliveryAddress struct {
	Address  DeliveryAddress
	Shipping shared.Money
	Tax      shared.Money
}

func (UpdatedDeliveryAddress) Kind() string { return "UpdatedDeliveryAddress" }

// UpdatedCartOnExistingDeliveryAddress is produced when the cart is
// replaced after an address already exists, carrying the re-priced
// shipping and tax for the new cart.
type UpdatedCartOnExistingDeliveryAddress struct {
	Cart     NonEmptyCart
	Shipping shared.Money
	Tax      shared.Money
}

func (UpdatedCartOnExistingDeliveryAddress) Kind() string {
	return "UpdatedCartOnExistingDeliveryAddress"
}

// Completed is the terminal transition, carrying the invoice the
// PaymentProcessor returned.
type Completed struct {
	Invoice Invoice
}

func (Completed) Kind() string { return "Completed" }
