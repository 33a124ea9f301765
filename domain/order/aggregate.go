package order

import "ordercore/journal"

// Aggregate is the per-entity state machine: an OrderState plus a
// sequence-number watermark. It is never shared; callers hold it behind
// their own mutual exclusion (see the service package's registry) for
// the whole of a command's lifetime.
type Aggregate struct {
	id        journal.EntityId
	state     OrderState
	watermark journal.SequenceNumber
}

// NewAggregate constructs a fresh, Empty aggregate for id.
func NewAggregate(id journal.EntityId) *Aggregate {
	return &Aggregate{id: id, state: EmptyState{}}
}

// State returns the aggregate's current state.
func (a *Aggregate) State() OrderState {
	return a.state
}

// Watermark returns the highest sequence number this aggregate has
// observed, zero if none yet.
func (a *Aggregate) Watermark() journal.SequenceNumber {
	return a.watermark
}

// Restore applies each event in order to the aggregate's current state
// (ordinarily Empty, for a freshly constructed aggregate), advancing the
// watermark to each applied event's sequence number as it goes. On the
// first inapplicable event it stops and returns ErrEventNotApplicable;
// every event applied before that point remains committed, so the
// aggregate is left in the last successfully reached state — partial
// replay is observable, not silently discarded.
func (a *Aggregate) Restore(events []journal.SequencedEvent[OrderEvent]) error {
	for _, sequenced := range events {
		next, err := applyEvent(a.id, a.state, sequenced.Event)
		if err != nil {
			return err
		}
		a.state = next
		a.watermark = sequenced.SequenceNumber
	}
	return nil
}

// Handle computes the event produced by cmd against the aggregate's
// current state, applies it through the same applyEvent function Restore
// uses, bumps the watermark, and commits the new state. On error the
// aggregate's state and watermark are left exactly as they were.
func (a *Aggregate) Handle(cmd OrderEntityCommand) (OrderState, []journal.SequencedEvent[OrderEvent], error) {
	event, err := commandToEvent(a.id, a.state, cmd)
	if err != nil {
		return nil, nil, err
	}

	next, err := applyEvent(a.id, a.state, event)
	if err != nil {
		// The command/state and event/state tables are kept in sync by
		// construction; reaching this means they've drifted apart.
		return nil, nil, err
	}

	a.state = next
	a.watermark++
	sequenced := journal.SequencedEvent[OrderEvent]{SequenceNumber: a.watermark, Event: event}
	return a.state, []journal.SequencedEvent[OrderEvent]{sequenced}, nil
}

// commandToEvent implements the command/state table: which event (if
// any) a command produces in a given state, or which error it is
// rejected with.
func commandToEvent(id journal.EntityId, state OrderState, cmd OrderEntityCommand) (OrderEvent, error) {
	switch c := cmd.(type) {
	case AddCart:
		switch state.(type) {
		case EmptyState, WithCartState:
			return UpdatedCart{Cart: c.Cart}, nil
		case WithAddressState:
			return nil, errInvalidState(id, "AddCart", "WithAddress")
		case CompletedState:
			return nil, errOrderCompleted(id)
		}

	case UpdateCart:
		switch state.(type) {
		case EmptyState:
			return nil, errInvalidState(id, "UpdateCart", "Empty")
		case WithCartState:
			return nil, errInvalidState(id, "UpdateCart", "WithCart")
		case WithAddressState:
			return UpdatedCartOnExistingDeliveryAddress{Cart: c.Cart, Shipping: c.Shipping, Tax: c.Tax}, nil
		case CompletedState:
			return nil, errOrderCompleted(id)
		}

	case UpdateDeliveryAddress:
		switch state.(type) {
		case EmptyState:
			return nil, errAddressOnEmpty(id)
		case WithCartState, WithAddressState:
			return UpdatedDeliveryAddress{Address: c.Address, Shipping: c.Shipping, Tax: c.Tax}, nil
		case CompletedState:
			return nil, errOrderCompleted(id)
		}

	case Complete:
		switch state.(type) {
		case EmptyState, WithCartState:
			return nil, errNotReady(id)
		case WithAddressState:
			return Completed{Invoice: c.Invoice}, nil
		case CompletedState:
			return nil, errOrderCompleted(id)
		}
	}
	return nil, errInvalidState(id, "unknown command", stateName(state))
}

// applyEvent implements the event/state applicability table: the single
// function both Restore and Handle use to move state forward, so replay
// and live processing can never diverge.
func applyEvent(id journal.EntityId, state OrderState, event OrderEvent) (OrderState, error) {
	switch e := event.(type) {
	case UpdatedCart:
		switch state.(type) {
		case EmptyState, WithCartState:
			return WithCartState{Cart: e.Cart}, nil
		default:
			return nil, errEventNotApplicable(id, e.Kind(), stateName(state))
		}

	case UpdatedDeliveryAddress:
		switch s := state.(type) {
		case WithCartState:
			return WithAddressState{Cart: s.Cart, Address: e.Address, Shipping: e.Shipping, Tax: e.Tax}, nil
		case WithAddressState:
			return WithAddressState{Cart: s.Cart, Address: e.Address, Shipping: e.Shipping, Tax: e.Tax}, nil
		default:
			return nil, errEventNotApplicable(id, e.Kind(), stateName(state))
		}

	case UpdatedCartOnExistingDeliveryAddress:
		switch s := state.(type) {
		case WithAddressState:
			return WithAddressState{Cart: e.Cart, Address: s.Address, Shipping: e.Shipping, Tax: e.Tax}, nil
		default:
			return nil, errEventNotApplicable(id, e.Kind(), stateName(state))
		}

	case Completed:
		switch s := state.(type) {
		case WithAddressState:
			return CompletedState{Cart: s.Cart, Address: s.Address, Shipping: s.Shipping, Tax: s.Tax, Invoice: e.Invoice}, nil
		default:
			return nil, errEventNotApplicable(id, e.Kind(), stateName(state))
		}
	}
	return nil, errEventNotApplicable(id, "unknown", stateName(state))
}
