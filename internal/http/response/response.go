package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketledger-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondFrom maps a service error onto its HTTP status and error code.
func RespondFrom(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	if apiErr == nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	_ = c.Error(err)
	RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
