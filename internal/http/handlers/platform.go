package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/http/response"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type PlatformHandler struct {
	svc services.MarketplaceService
}

func NewPlatformHandler(svc services.MarketplaceService) *PlatformHandler {
	return &PlatformHandler{svc: svc}
}

// GET /api/platform/owner
func (h *PlatformHandler) GetOwner(c *gin.Context) {
	owner, err := h.svc.GetPlatformOwner(c.Request.Context())
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"owner": owner})
}

type updateOwnerRequest struct {
	Owner string `json:"owner"`
}

// PUT /api/platform/owner
func (h *PlatformHandler) UpdateOwner(c *gin.Context) {
	var req updateOwnerRequest
	if !bindJSON(c, &req) {
		return
	}
	next, err := domain.ParseIdentity(req.Owner)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := h.svc.UpdatePlatformOwner(c.Request.Context(), ctxutil.Caller(c.Request.Context()), next); err != nil {
		response.RespondFrom(c, err)
		return
	}
	response.RespondOK(c, gin.H{"owner": next})
}
