package order

import (
	"encoding/json"
	"fmt"

	"ordercore/domain/shared"
	"ordercore/journal"
)

// EventCodec implements journal.Codec[OrderEvent]: a tagged-union JSON
// encoding that preserves the variant name and its fields, so any
// journal backend can round-trip an OrderEvent without interpreting it.
type EventCodec struct{}

type wireEnvelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type moneyWire struct {
	Cents    uint32 `json:"cents"`
	Currency string `json:"currency"`
}

func toMoneyWire(m shared.Money) moneyWire {
	return moneyWire{Cents: m.Cents(), Currency: string(m.Currency())}
}

func fromMoneyWire(w moneyWire) shared.Money {
	return shared.NewMoney(w.Cents, shared.Currency(w.Currency))
}

type cartWire struct {
	Items map[string]uint16 `json:"items"`
}

func toCartWire(c NonEmptyCart) cartWire {
	items := make(map[string]uint16, len(c.items))
	for sku, qty := range c.items {
		items[string(sku)] = uint16(qty)
	}
	return cartWire{Items: items}
}

func fromCartWire(w cartWire) (NonEmptyCart, error) {
	items := make(map[SKU]Quantity, len(w.Items))
	for sku, qty := range w.Items {
		items[SKU(sku)] = Quantity(qty)
	}
	return NewNonEmptyCart(items)
}

type addressWire struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}

func toAddressWire(a DeliveryAddress) addressWire {
	return addressWire{Street: a.Street, PostalCode: a.PostalCode.String()}
}

func fromAddressWire(w addressWire) (DeliveryAddress, error) {
	return NewDeliveryAddress(w.Street, w.PostalCode)
}

type invoiceWire struct {
	Number string `json:"number"`
}

func toInvoiceWire(inv Invoice) invoiceWire {
	return invoiceWire{Number: inv.Number}
}

func fromInvoiceWire(w invoiceWire) Invoice {
	return Invoice{Number: w.Number}
}

type updatedCartWire struct {
	Cart cartWire `json:"cart"`
}

type updatedDeliveryAddressWire struct {
	Address  addressWire `json:"address"`
	Shipping moneyWire   `json:"shipping"`
	Tax      moneyWire   `json:"tax"`
}

type updatedCartOnExistingDeliveryAddressWire struct {
	Cart     cartWire  `json:"cart"`
	Shipping moneyWire `json:"shipping"`
	Tax      moneyWire `json:"tax"`
}

type completedWire struct {
	Invoice invoiceWire `json:"invoice"`
}

// Marshal encodes event as {"kind": <variant>, "payload": <fields>}.
func (EventCodec) Marshal(event OrderEvent) ([]byte, error) {
	var payload any
	switch e := event.(type) {
	case UpdatedCart:
		payload = updatedCartWire{Cart: toCartWire(e.Cart)}
	case UpdatedDeliveryAddress:
		payload = updatedDeliveryAddressWire{
			Address:  toAddressWire(e.Address),
			Shipping: toMoneyWire(e.Shipping),
			Tax:      toMoneyWire(e.Tax),
		}
	case UpdatedCartOnExistingDeliveryAddress:
		payload = updatedCartOnExistingDeliveryAddressWire{
			Cart:     toCartWire(e.Cart),
			Shipping: toMoneyWire(e.Shipping),
			Tax:      toMoneyWire(e.Tax),
		}
	case Completed:
		payload = completedWire{Invoice: toInvoiceWire(e.Invoice)}
	default:
		return nil, fmt.Errorf("order: unknown event type %T", event)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEnvelope{Kind: event.Kind(), Payload: raw})
}

// Unmarshal decodes data produced by Marshal back into the concrete
// OrderEvent variant named by its kind.
func (EventCodec) Unmarshal(data []byte) (OrderEvent, error) {
	var envelope wireEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Kind {
	case "UpdatedCart":
		var w updatedCartWire
		if err := json.Unmarshal(envelope.Payload, &w); err != nil {
			return nil, err
		}
		cart, err := fromCartWire(w.Cart)
		if err != nil {
			return nil, err
		}
		return UpdatedCart{Cart: cart}, nil

	case "UpdatedDeliveryAddress":
		var w updatedDeliveryAddressWire
		if err := json.Unmarshal(envelope.Payload, &w); err != nil {
			return nil, err
		}
		address, err := fromAddressWire(w.Address)
		if err != nil {
			return nil, err
		}
		return UpdatedDeliveryAddress{Address: address, Shipping: fromMoneyWire(w.Shipping), Tax: fromMoneyWire(w.Tax)}, nil

	case "UpdatedCartOnExistingDeliveryAddress":
		var w updatedCartOnExistingDeliveryAddressWire
		if err := json.Unmarshal(envelope.Payload, &w); err != nil {
			return nil, err
		}
		cart, err := fromCartWire(w.Cart)
		if err != nil {
			return nil, err
		}
		return UpdatedCartOnExistingDeliveryAddress{Cart: cart, Shipping: fromMoneyWire(w.Shipping), Tax: fromMoneyWire(w.Tax)}, nil

	case "Completed":
		var w completedWire
		if err := json.Unmarshal(envelope.Payload, &w); err != nil {
			return nil, err
		}
		return Completed{Invoice: fromInvoiceWire(w.Invoice)}, nil

	default:
		return nil, fmt.Errorf("order: unknown event kind %q", envelope.Kind)
	}
}

var _ journal.Codec[OrderEvent] = EventCodec{}
