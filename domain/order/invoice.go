package order

// PaymentToken is an opaque caller-supplied token authorizing payment.
type PaymentToken string

// Invoice is the record a PaymentProcessor returns once payment is
// accepted, carried verbatim into the terminal Completed event.
type Invoice struct {
	Number string
}
