// Package order exposes the three HTTP endpoints a client drives an
// order lifecycle through. Each handler parses its request, calls into
// service.CommandService, and lets response.HandleAppError translate
// whatever the aggregate or journal rejected with into the right HTTP
// status — this layer never inspects error codes itself.
package order

import (
	"net/http"
	"strconv"

	"ordercore/api/ctxutil"
	"ordercore/api/response"
	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/journal"
	"ordercore/pkg/errors"
	"ordercore/service"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	commands *service.CommandService
}

func NewController(commands *service.CommandService) *Controller {
	return &Controller{commands: commands}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders/:id")
	{
		orders.POST("/cart", c.UpdateCart)
		orders.POST("/address", c.UpdateDeliveryAddress)
		orders.POST("/pay", c.Pay)
	}
}

func parseEntityID(ctx *gin.Context) (journal.EntityId, bool) {
	raw := ctx.Param("id")
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.HandleError(ctx, errors.BadRequest("invalid order id"), "order id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return journal.EntityId(value), true
}

type updateCartRequest struct {
	Items map[string]uint16 `json:"items" binding:"required"`
}

// UpdateCart handles POST /orders/:id/cart.
func (c *Controller) UpdateCart(ctx *gin.Context) {
	id, ok := parseEntityID(ctx)
	if !ok {
		return
	}

	var req updateCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	items := make(map[order.SKU]order.Quantity, len(req.Items))
	for sku, qty := range req.Items {
		items[order.SKU(sku)] = order.Quantity(qty)
	}

	cart, err := order.NewNonEmptyCart(items)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	state, _, err := c.commands.UpdateCart(ctxutil.WithRequestID(ctx), id, cart)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, stateView(state), "cart updated")
}

type updateDeliveryAddressRequest struct {
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
}

// UpdateDeliveryAddress handles POST /orders/:id/address.
func (c *Controller) UpdateDeliveryAddress(ctx *gin.Context) {
	id, ok := parseEntityID(ctx)
	if !ok {
		return
	}

	var req updateDeliveryAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	address, err := order.NewDeliveryAddress(req.Street, req.PostalCode)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	state, _, err := c.commands.UpdateDeliveryAddress(ctxutil.WithRequestID(ctx), id, address)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, stateView(state), "delivery address updated")
}

type payRequest struct {
	Token string `json:"token" binding:"required"`
}

// Pay handles POST /orders/:id/pay.
func (c *Controller) Pay(ctx *gin.Context) {
	id, ok := parseEntityID(ctx)
	if !ok {
		return
	}

	var req payRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	state, _, err := c.commands.PayOrder(ctxutil.WithRequestID(ctx), id, order.PaymentToken(req.Token))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, stateView(state), "order paid")
}

// stateView renders an OrderState as a JSON-friendly shape without
// exposing the aggregate's internal value-object representation.
func stateView(state order.OrderState) gin.H {
	switch s := state.(type) {
	case order.EmptyState:
		return gin.H{"status": "empty"}
	case order.WithCartState:
		return gin.H{"status": "with_cart", "cart": cartView(s.Cart)}
	case order.WithAddressState:
		return gin.H{
			"status":   "with_address",
			"cart":     cartView(s.Cart),
			"address":  addressView(s.Address),
			"shipping": moneyView(s.Shipping),
			"tax":      moneyView(s.Tax),
		}
	case order.CompletedState:
		return gin.H{
			"status":   "completed",
			"cart":     cartView(s.Cart),
			"address":  addressView(s.Address),
			"shipping": moneyView(s.Shipping),
			"tax":      moneyView(s.Tax),
			"invoice":  gin.H{"number": s.Invoice.Number},
		}
	default:
		return gin.H{"status": "unknown"}
	}
}

func cartView(cart order.NonEmptyCart) gin.H {
	items := make(map[string]uint16, len(cart.Items()))
	for sku, qty := range cart.Items() {
		items[string(sku)] = uint16(qty)
	}
	return gin.H{"items": items}
}

func addressView(address order.DeliveryAddress) gin.H {
	return gin.H{"street": address.Street, "postal_code": address.PostalCode.String()}
}

func moneyView(m shared.Money) gin.H {
	return gin.H{"cents": m.Cents(), "currency": string(m.Currency())}
}
