package order

import (
	"errors"
	"testing"

	"ordercore/domain/shared"
	"ordercore/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCart(t *testing.T, items map[SKU]Quantity) NonEmptyCart {
	t.Helper()
	cart, err := NewNonEmptyCart(items)
	require.NoError(t, err)
	return cart
}

func mustAddress(t *testing.T, street, postal string) DeliveryAddress {
	t.Helper()
	addr, err := NewDeliveryAddress(street, postal)
	require.NoError(t, err)
	return addr
}

func TestAggregate_FullLifecycle(t *testing.T) {
	agg := NewAggregate(journal.EntityId(42))
	cart := mustCart(t, map[SKU]Quantity{"widget": 2})
	address := mustAddress(t, "1 Yonge St", "M5E 1E5")
	shipping := shared.NewMoney(200, shared.CAD)
	tax := shared.NewMoney(130, shared.CAD)

	state, events, err := agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, journal.SequenceNumber(1), events[0].SequenceNumber)
	withCart, ok := state.(WithCartState)
	require.True(t, ok)
	assert.True(t, withCart.Cart.Equals(cart))

	state, events, err = agg.Handle(UpdateDeliveryAddress{Address: address, Shipping: shipping, Tax: tax})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, journal.SequenceNumber(2), events[0].SequenceNumber)
	withAddr, ok := state.(WithAddressState)
	require.True(t, ok)
	assert.True(t, withAddr.Address.Equals(address))
	assert.True(t, withAddr.Shipping.Equals(shipping))
	assert.True(t, withAddr.Tax.Equals(tax))

	invoice := Invoice{Number: "INV-1"}
	state, events, err = agg.Handle(Complete{Invoice: invoice})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, journal.SequenceNumber(3), events[0].SequenceNumber)
	completed, ok := state.(CompletedState)
	require.True(t, ok)
	assert.Equal(t, invoice, completed.Invoice)

	assert.Equal(t, journal.SequenceNumber(3), agg.Watermark())
}

func TestAggregate_RejectionLeavesStateUnchanged(t *testing.T) {
	agg := NewAggregate(journal.EntityId(7))

	_, _, err := agg.Handle(Complete{Invoice: Invoice{Number: "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.IsType(t, EmptyState{}, agg.State())
	assert.Equal(t, journal.SequenceNumber(0), agg.Watermark())

	_, _, err = agg.Handle(UpdateDeliveryAddress{Address: mustAddress(t, "1 Main St", "K1A 0B1")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAddressOnEmpty))
	assert.IsType(t, EmptyState{}, agg.State())
	assert.Equal(t, journal.SequenceNumber(0), agg.Watermark())
}

func TestAggregate_CompletedStateRejectsEverything(t *testing.T) {
	agg := NewAggregate(journal.EntityId(1))
	cart := mustCart(t, map[SKU]Quantity{"a": 1})
	address := mustAddress(t, "street", "A1A 0B0")

	_, _, err := agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	_, _, err = agg.Handle(UpdateDeliveryAddress{Address: address})
	require.NoError(t, err)
	_, _, err = agg.Handle(Complete{Invoice: Invoice{Number: "INV-9"}})
	require.NoError(t, err)

	watermarkBefore := agg.Watermark()
	stateBefore := agg.State()

	_, _, err = agg.Handle(AddCart{Cart: cart})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderCompleted))

	_, _, err = agg.Handle(UpdateCart{Cart: cart})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderCompleted))

	_, _, err = agg.Handle(UpdateDeliveryAddress{Address: address})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderCompleted))

	_, _, err = agg.Handle(Complete{Invoice: Invoice{Number: "INV-10"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderCompleted))

	assert.Equal(t, watermarkBefore, agg.Watermark())
	assert.Equal(t, stateBefore, agg.State())
}

func TestAggregate_AddCartRejectedOnceAddressSet(t *testing.T) {
	agg := NewAggregate(journal.EntityId(2))
	cart := mustCart(t, map[SKU]Quantity{"a": 1})
	address := mustAddress(t, "street", "A1A 0B0")

	_, _, err := agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	_, _, err = agg.Handle(UpdateDeliveryAddress{Address: address})
	require.NoError(t, err)

	_, _, err = agg.Handle(AddCart{Cart: cart})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAggregate_UpdateCartRejectedBeforeAddressSet(t *testing.T) {
	agg := NewAggregate(journal.EntityId(3))
	cart := mustCart(t, map[SKU]Quantity{"a": 1})

	_, _, err := agg.Handle(UpdateCart{Cart: cart})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, _, err = agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)

	_, _, err = agg.Handle(UpdateCart{Cart: cart})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestAggregate_UpdateCartOnExistingAddressReprices(t *testing.T) {
	agg := NewAggregate(journal.EntityId(4))
	cart := mustCart(t, map[SKU]Quantity{"a": 1})
	address := mustAddress(t, "street", "A1A 0B0")

	_, _, err := agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	_, _, err = agg.Handle(UpdateDeliveryAddress{Address: address, Shipping: shared.NewMoney(200, shared.CAD), Tax: shared.NewMoney(130, shared.CAD)})
	require.NoError(t, err)

	newCart := mustCart(t, map[SKU]Quantity{"a": 1, "b": 2})
	newShipping := shared.NewMoney(300, shared.CAD)
	newTax := shared.NewMoney(150, shared.CAD)

	state, _, err := agg.Handle(UpdateCart{Cart: newCart, Shipping: newShipping, Tax: newTax})
	require.NoError(t, err)

	withAddr, ok := state.(WithAddressState)
	require.True(t, ok)
	assert.True(t, withAddr.Cart.Equals(newCart))
	assert.True(t, withAddr.Address.Equals(address))
	assert.True(t, withAddr.Shipping.Equals(newShipping))
	assert.True(t, withAddr.Tax.Equals(newTax))
}

// restoreFromEvents drives a fresh aggregate's Restore with the exact
// sequence of events a prior Handle run produced, as a journal replay
// would.
func restoreFromEvents(t *testing.T, id journal.EntityId, events []journal.SequencedEvent[OrderEvent]) *Aggregate {
	t.Helper()
	agg := NewAggregate(id)
	require.NoError(t, agg.Restore(events))
	return agg
}

func TestAggregate_ReplayReproducesLiveState(t *testing.T) {
	id := journal.EntityId(99)
	live := NewAggregate(id)
	cart := mustCart(t, map[SKU]Quantity{"a": 5})
	address := mustAddress(t, "42 Elm St", "H0H 0H0")

	var all []journal.SequencedEvent[OrderEvent]

	_, events, err := live.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	all = append(all, events...)

	_, events, err = live.Handle(UpdateDeliveryAddress{
		Address:  address,
		Shipping: shared.NewMoney(200, shared.CAD),
		Tax:      shared.NewMoney(130, shared.CAD),
	})
	require.NoError(t, err)
	all = append(all, events...)

	_, events, err = live.Handle(Complete{Invoice: Invoice{Number: "INV-REPLAY"}})
	require.NoError(t, err)
	all = append(all, events...)

	replayed := restoreFromEvents(t, id, all)

	assert.Equal(t, live.State(), replayed.State())
	assert.Equal(t, live.Watermark(), replayed.Watermark())
}

func TestAggregate_RestoreStopsAtFirstInapplicableEvent(t *testing.T) {
	id := journal.EntityId(5)
	events := []journal.SequencedEvent[OrderEvent]{
		{SequenceNumber: 1, Event: UpdatedCart{Cart: mustCart(t, map[SKU]Quantity{"a": 1})}},
		{SequenceNumber: 2, Event: Completed{Invoice: Invoice{Number: "INV"}}},
	}

	agg := NewAggregate(id)
	err := agg.Restore(events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventNotApplicable))

	assert.IsType(t, WithCartState{}, agg.State())
	assert.Equal(t, journal.SequenceNumber(1), agg.Watermark())
}

func TestAggregate_SequenceNumbersAreGaplessAndMonotonic(t *testing.T) {
	agg := NewAggregate(journal.EntityId(6))
	cart := mustCart(t, map[SKU]Quantity{"a": 1})

	_, events1, err := agg.Handle(AddCart{Cart: cart})
	require.NoError(t, err)
	_, events2, err := agg.Handle(UpdateDeliveryAddress{Address: mustAddress(t, "s", "A1A 0B0")})
	require.NoError(t, err)

	assert.Equal(t, journal.SequenceNumber(1), events1[0].SequenceNumber)
	assert.Equal(t, journal.SequenceNumber(2), events2[0].SequenceNumber)

	// A rejected command does not consume a sequence number.
	_, _, err = agg.Handle(AddCart{Cart: cart})
	require.Error(t, err)

	_, events3, err := agg.Handle(Complete{Invoice: Invoice{Number: "INV"}})
	require.NoError(t, err)
	assert.Equal(t, journal.SequenceNumber(3), events3[0].SequenceNumber)
}
