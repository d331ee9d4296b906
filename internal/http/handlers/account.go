package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/http/response"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type AccountHandler struct {
	svc services.MarketplaceService
}

func NewAccountHandler(svc services.MarketplaceService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// GET /api/accounts/:identity/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	id, ok := pathIdentity(c, "identity")
	if !ok {
		return
	}
	bal, err := h.svc.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"identity": id, "balance": bal})
}

type receivingRequest struct {
	Accept *bool `json:"accept"`
}

// PUT /api/accounts/me/receiving
func (h *AccountHandler) SetReceiving(c *gin.Context) {
	var req receivingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Accept == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", errMissingField("accept"))
		return
	}
	caller := ctxutil.Caller(c.Request.Context())
	if err := h.svc.SetReceiving(c.Request.Context(), caller, *req.Accept); err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"identity": caller, "accept": *req.Accept})
}
