package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/http/response"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type ProductHandler struct {
	svc services.MarketplaceService
}

func NewProductHandler(svc services.MarketplaceService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type listProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
	ImageHash   string `json:"image_hash"`
}

// POST /api/products
func (h *ProductHandler) List(c *gin.Context) {
	var req listProductRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.svc.ListProduct(c.Request.Context(), ctxutil.Caller(c.Request.Context()), services.ListProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageHash:   req.ImageHash,
	})
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"product_id": id})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

// GET /api/sellers/:identity/products
func (h *ProductHandler) SellerProducts(c *gin.Context) {
	seller, ok := pathIdentity(c, "identity")
	if !ok {
		return
	}
	ids, err := h.svc.GetSellerProducts(c.Request.Context(), seller)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product_ids": ids})
}

type purchaseRequest struct {
	Quantity   uint64 `json:"quantity"`
	PaidAmount uint64 `json:"paid_amount"`
}

// POST /api/products/:id/purchase
func (h *ProductHandler) Purchase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req purchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Purchase(c.Request.Context(), ctxutil.Caller(c.Request.Context()), id, req.Quantity, req.PaidAmount)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"order_id":      res.OrderID,
		"refund":        res.Refund,
		"total_cost":    res.TotalCost,
		"platform_fee":  res.PlatformFee,
		"seller_amount": res.SellerAmount,
		"stock_left":    res.StockLeft,
	})
}

type setStockRequest struct {
	Stock *uint64 `json:"stock"`
}

// PUT /api/products/:id/stock
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setStockRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Stock == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", errMissingField("stock"))
		return
	}
	res, err := h.svc.SetStock(c.Request.Context(), ctxutil.Caller(c.Request.Context()), id, *req.Stock)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product_id": res.ProductID, "stock": res.Stock, "is_active": res.IsActive})
}

// POST /api/products/:id/deactivate
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateProduct(c.Request.Context(), ctxutil.Caller(c.Request.Context()), id); err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product_id": id, "is_active": false})
}

// GET /api/products/:id/orders
func (h *ProductHandler) Orders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.GetProductOrders(c.Request.Context(), ctxutil.Caller(c.Request.Context()), id)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	out := make([]orderView, 0, len(rows))
	for _, o := range rows {
		out = append(out, newOrderView(o))
	}
	response.RespondOK(c, gin.H{"orders": out})
}
