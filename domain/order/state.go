package order

import "ordercore/domain/shared"

// OrderState is a tagged variant with exactly four cases. Each concrete
// type below owns only the fields legal for that point in the lifecycle;
// a transition consumes the prior variant and produces the next one, so
// an illegal intermediate shape is never representable.
type OrderState interface {
	isOrderState()
}

// EmptyState is the initial state of every order: no cart, no address.
type EmptyState struct{}

func (EmptyState) isOrderState() {}

// WithCartState owns a non-empty cart and nothing else yet.
type WithCartState struct {
	Cart NonEmptyCart
}

func (WithCartState) isOrderState() {}

// WithAddressState owns a cart, a delivery address, and the shipping and
// tax amounts priced against that address at the time they were set.
type WithAddressState struct {
	Cart     NonEmptyCart
	Address  DeliveryAddress
	Shipping shared.Money
	Tax      shared.Money
}

func (WithAddressState) isOrderState() {}

// CompletedState is terminal: cart, address, costs, and the invoice that
// closed the order. No further transitions are legal from here.
type CompletedState struct {
	Cart     NonEmptyCart
	Address  DeliveryAddress
	Shipping shared.Money
	Tax      shared.Money
	Invoice  Invoice
}

func (CompletedState) isOrderState() {}

// stateName renders a state's variant name for error messages.
func stateName(state OrderState) string {
	switch state.(type) {
	case EmptyState:
		return "Empty"
	case WithCartState:
		return "WithCart"
	case WithAddressState:
		return "WithAddress"
	case CompletedState:
		return "Completed"
	default:
		return "Unknown"
	}
}
