package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/http/response"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime"
	"github.com/yungbote/marketledger-backend/internal/services"
)

type EventHandler struct {
	log *logger.Logger
	svc services.MarketplaceService
	hub *realtime.SSEHub
}

func NewEventHandler(log *logger.Logger, svc services.MarketplaceService, hub *realtime.SSEHub) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), svc: svc, hub: hub}
}

// GET /api/events?after=<id>&limit=<n>
func (h *EventHandler) List(c *gin.Context) {
	after, err := queryUint(c, "after")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	limit, err := queryUint(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	rows, err := h.svc.ListEvents(c.Request.Context(), after, int(min(limit, 1<<20)))
	if err != nil {
		response.RespondFrom(c, err)
		return
	}
	next := after
	if n := len(rows); n > 0 {
		next = rows[n-1].ID
	}
	response.RespondOK(c, gin.H{"events": rows, "next_after": next})
}

// GET /api/stream streams live events. Anonymous clients get the market
// channel; authenticated clients also get their own identity channel.
func (h *EventHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "internal", fmt.Errorf("event stream disabled"))
		return
	}
	caller := ctxutil.Caller(c.Request.Context())
	client := h.hub.NewSSEClient(caller)
	h.hub.AddChannel(client, realtime.MarketChannel)
	if ch := realtime.IdentityChannel(caller); ch != "" {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("Event stream open", "client_id", client.ID.String(), "caller", caller.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}

func queryUint(c *gin.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
