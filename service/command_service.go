package service

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/pricing"
	"ordercore/journal"

	"go.uber.org/zap"
)

// CommandService is the public surface: three commands, each resolving
// the target aggregate, building the aggregate-level command by
// inspecting the current state and invoking pricing/payment as needed,
// dispatching it, and persisting the resulting events before returning.
type CommandService struct {
	registry *registry
	journal  journal.Journal[order.OrderEvent]
	shipping pricing.ShippingCalculator
	tax      pricing.TaxCalculator
	payment  pricing.PaymentProcessor
	logger   *zap.Logger
}

// NewCommandService wires a command service over the given journal and
// pricing/payment collaborators.
func NewCommandService(
	j journal.Journal[order.OrderEvent],
	shipping pricing.ShippingCalculator,
	tax pricing.TaxCalculator,
	payment pricing.PaymentProcessor,
	logger *zap.Logger,
) *CommandService {
	return &CommandService{
		registry: newRegistry(j, logger),
		journal:  j,
		shipping: shipping,
		tax:      tax,
		payment:  payment,
		logger:   logger,
	}
}

// UpdateCart sets or replaces the cart on orderId. On WithAddress it
// recomputes shipping and tax against the order's existing address
// before building the aggregate command; on Empty/WithCart it just
// forwards the cart. Completed orders are rejected by the aggregate
// itself with ErrOrderCompleted.
func (s *CommandService) UpdateCart(ctx context.Context, orderID journal.EntityId, cart order.NonEmptyCart) (order.OrderState, []journal.SequencedEvent[order.OrderEvent], error) {
	handle, err := s.registry.resolve(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	var cmd order.OrderEntityCommand
	switch current := handle.aggregate.State().(type) {
	case order.WithAddressState:
		shipping := s.shipping.Cost(cart, current.Address)
		tax := s.tax.Cost(cart, shipping)
		cmd = order.UpdateCart{Cart: cart, Shipping: shipping, Tax: tax}
	default:
		cmd = order.AddCart{Cart: cart}
	}

	return s.dispatch(ctx, orderID, handle, cmd)
}

// UpdateDeliveryAddress sets or replaces the delivery address on
// orderId, recomputing shipping and tax against the order's current
// cart. On Empty (no cart yet) the aggregate itself rejects with
// ErrAddressOnEmpty, so pricing is never invoked in that case.
func (s *CommandService) UpdateDeliveryAddress(ctx context.Context, orderID journal.EntityId, address order.DeliveryAddress) (order.OrderState, []journal.SequencedEvent[order.OrderEvent], error) {
	handle, err := s.registry.resolve(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	var cmd order.OrderEntityCommand
	switch current := handle.aggregate.State().(type) {
	case order.WithCartState:
		shipping := s.shipping.Cost(current.Cart, address)
		tax := s.tax.Cost(current.Cart, shipping)
		cmd = order.UpdateDeliveryAddress{Address: address, Shipping: shipping, Tax: tax}
	case order.WithAddressState:
		shipping := s.shipping.Cost(current.Cart, address)
		tax := s.tax.Cost(current.Cart, shipping)
		cmd = order.UpdateDeliveryAddress{Address: address, Shipping: shipping, Tax: tax}
	default:
		// Empty: rejected with ErrAddressOnEmpty. Completed: rejected with
		// ErrOrderCompleted. Neither needs a priced command.
		cmd = order.UpdateDeliveryAddress{Address: address}
	}

	return s.dispatch(ctx, orderID, handle, cmd)
}

// PayOrder pays orderId with token. Only WithAddress actually contacts
// the PaymentProcessor; every other state is rejected by the aggregate
// before any external call is made.
func (s *CommandService) PayOrder(ctx context.Context, orderID journal.EntityId, token order.PaymentToken) (order.OrderState, []journal.SequencedEvent[order.OrderEvent], error) {
	handle, err := s.registry.resolve(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	var cmd order.OrderEntityCommand
	if _, ok := handle.aggregate.State().(order.WithAddressState); ok {
		invoice, err := s.payment.PayWithToken(ctx, token)
		if err != nil {
			return nil, nil, err
		}
		cmd = order.Complete{Invoice: invoice}
	} else {
		cmd = order.Complete{}
	}

	return s.dispatch(ctx, orderID, handle, cmd)
}

// dispatch runs cmd through the aggregate and persists every event it
// produces, in order, before returning. If an append fails partway
// through a multi-event command the in-memory state has already
// advanced past what the journal holds; the service surfaces the
// failure as-is rather than attempting to roll the aggregate back.
func (s *CommandService) dispatch(ctx context.Context, orderID journal.EntityId, handle *entityHandle, cmd order.OrderEntityCommand) (order.OrderState, []journal.SequencedEvent[order.OrderEvent], error) {
	state, events, err := handle.aggregate.Handle(cmd)
	if err != nil {
		return nil, nil, err
	}

	for _, event := range events {
		if err := s.journal.Append(ctx, orderID, event); err != nil {
			s.logger.Error("journal append failed after aggregate state advanced",
				zap.Int64("entity_id", int64(orderID)),
				zap.Int64("sequence_number", int64(event.SequenceNumber)),
				zap.Error(err),
			)
			return nil, nil, err
		}
	}

	s.logger.Debug("command committed",
		zap.Int64("entity_id", int64(orderID)),
		zap.Int("event_count", len(events)),
	)
	return state, events, nil
}
