package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/http/response"
)

func pathID(c *gin.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("invalid %s %q", name, raw))
		return 0, false
	}
	return id, true
}

func pathIdentity(c *gin.Context, name string) (domain.Identity, bool) {
	id, err := domain.ParseIdentity(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return domain.ZeroIdentity, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
