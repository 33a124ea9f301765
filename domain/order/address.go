package order

import (
	"regexp"
	"strings"
)

var canadianPostalCode = regexp.MustCompile(`^[ABCEGHJKLMNPRSTVXY]\d[ABCEGHJKLMNPRSTVWXYZ] ?\d[ABCEGHJKLMNPRSTVWXYZ]\d$`)

// PostalCode is a validated Canadian postal code, stored as six
// characters with no internal space. Display reinserts the space
// between the third and fourth characters.
type PostalCode struct {
	canonical string
}

// NewPostalCode trims and uppercases raw, validates it against the
// Canadian postal code format, and stores it without the middle space.
// Accepts both "A1A 0B0" and "A1A0B0", case-insensitively.
func NewPostalCode(raw string) (PostalCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !canadianPostalCode.MatchString(normalized) {
		return PostalCode{}, errInvalidPostalCode(raw)
	}
	compact := strings.Replace(normalized, " ", "", 1)
	return PostalCode{canonical: compact}, nil
}

// String renders the canonical display form, e.g. "A1A 0B0".
func (p PostalCode) String() string {
	return p.canonical[:3] + " " + p.canonical[3:]
}

// DeliveryAddress is a free-form street and a validated postal code.
type DeliveryAddress struct {
	Street     string
	PostalCode PostalCode
}

// NewDeliveryAddress validates the postal code and constructs an address.
func NewDeliveryAddress(street, rawPostalCode string) (DeliveryAddress, error) {
	code, err := NewPostalCode(rawPostalCode)
	if err != nil {
		return DeliveryAddress{}, err
	}
	return DeliveryAddress{Street: street, PostalCode: code}, nil
}

// Equals reports whether two addresses carry the same street and postal
// code.
func (a DeliveryAddress) Equals(other DeliveryAddress) bool {
	return a.Street == other.Street && a.PostalCode.canonical == other.PostalCode.canonical
}
