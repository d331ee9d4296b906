package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/http/response"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type OrderHandler struct {
	svc services.MarketplaceService
}

func NewOrderHandler(svc services.MarketplaceService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderView struct {
	*domain.Order
	Status domain.OrderStatus `json:"status"`
}

func newOrderView(o *domain.Order) orderView {
	return orderView{Order: o, Status: o.Status()}
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": newOrderView(o)})
}

// GET /api/buyers/:identity/orders
func (h *OrderHandler) BuyerOrders(c *gin.Context) {
	buyer, ok := pathIdentity(c, "identity")
	if !ok {
		return
	}
	ids, err := h.svc.GetBuyerOrders(c.Request.Context(), buyer)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order_ids": ids})
}

// POST /api/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkDelivered(c.Request.Context(), ctxutil.Caller(c.Request.Context()), id); err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order_id": id, "status": domain.OrderStatusDelivered})
}
