package order

import (
	"ordercore/domain/shared"
	"ordercore/journal"
)

// Sentinel errors for the order lifecycle, matched with errors.Is().
// Each has a constructor below that wraps it in orderError to capture a
// stack trace at the point of failure.
var (
	ErrCartEmpty          = newSentinel("cart must contain at least one item")
	ErrInvalidPostalCode  = newSentinel("postal code does not match the Canadian postal code format")
	ErrInvalidState       = newSentinel("command is not valid in the order's current state")
	ErrAddressOnEmpty     = newSentinel("cannot set a delivery address before a cart exists")
	ErrNotReady           = newSentinel("order is not ready for payment")
	ErrOrderCompleted     = newSentinel("order is already completed")
	ErrEventNotApplicable = newSentinel("event is not applicable to the current state")
)

type sentinel struct{ msg string }

func newSentinel(msg string) *sentinel { return &sentinel{msg: msg} }
func (s *sentinel) Error() string      { return s.msg }

// orderError wraps a sentinel with the business context of where and why
// it happened, capturing a stack trace at construction so a caller that
// wants one doesn't need to re-derive it later.
type orderError struct {
	sentinel error
	entityID journal.EntityId
	message  string
	stack    []uintptr
}

func (e *orderError) Error() string { return e.message }
func (e *orderError) Unwrap() error { return e.sentinel }
func (e *orderError) Stack() []string {
	return shared.FormatStack(e.stack)
}

func newOrderError(sentinel error, entityID journal.EntityId, message string) error {
	return &orderError{
		sentinel: sentinel,
		entityID: entityID,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

func errCartEmpty() error {
	return newOrderError(ErrCartEmpty, 0, ErrCartEmpty.Error())
}

func errInvalidPostalCode(code string) error {
	return newOrderError(ErrInvalidPostalCode, 0, "invalid postal code: "+code)
}

func errInvalidState(entityID journal.EntityId, command string, state string) error {
	return newOrderError(ErrInvalidState, entityID, command+" is not valid while the order is "+state)
}

func errAddressOnEmpty(entityID journal.EntityId) error {
	return newOrderError(ErrAddressOnEmpty, entityID, ErrAddressOnEmpty.Error())
}

func errNotReady(entityID journal.EntityId) error {
	return newOrderError(ErrNotReady, entityID, ErrNotReady.Error())
}

func errOrderCompleted(entityID journal.EntityId) error {
	return newOrderError(ErrOrderCompleted, entityID, ErrOrderCompleted.Error())
}

func errEventNotApplicable(entityID journal.EntityId, event string, state string) error {
	return newOrderError(ErrEventNotApplicable, entityID, event+" is not applicable while the order is "+state)
}
