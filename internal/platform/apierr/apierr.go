package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeInvalidInput:        http.StatusBadRequest,
	domainagg.CodeNotFound:            http.StatusNotFound,
	domainagg.CodeUnauthorized:        http.StatusForbidden,
	domainagg.CodeInactiveProduct:     http.StatusConflict,
	domainagg.CodeInsufficientStock:   http.StatusConflict,
	domainagg.CodeSelfPurchase:        http.StatusConflict,
	domainagg.CodeAlreadyDelivered:    http.StatusConflict,
	domainagg.CodeInsufficientPayment: http.StatusPaymentRequired,
	domainagg.CodeOverflow:            http.StatusUnprocessableEntity,
	domainagg.CodeTransferFailed:      http.StatusBadGateway,
	domainagg.CodeConflict:            http.StatusConflict,
	domainagg.CodeRetryable:           http.StatusConflict,
	domainagg.CodeInvariantViolation:  http.StatusInternalServerError,
	domainagg.CodeInternal:            http.StatusInternalServerError,
}

// FromError converts any service error into an API error. Aggregate codes map
// onto HTTP statuses; anything untyped is reported as internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return New(status, string(code), err)
}
