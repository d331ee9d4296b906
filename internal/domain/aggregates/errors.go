package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

// Marketplace outcomes. Every one aborts the write and rolls it back.
const (
	CodeInvalidInput        ErrorCode = "invalid_input"
	CodeNotFound            ErrorCode = "not_found"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeInactiveProduct     ErrorCode = "inactive_product"
	CodeInsufficientStock   ErrorCode = "insufficient_stock"
	CodeInsufficientPayment ErrorCode = "insufficient_payment"
	CodeSelfPurchase        ErrorCode = "self_purchase"
	CodeAlreadyDelivered    ErrorCode = "already_delivered"
	CodeOverflow            ErrorCode = "overflow"
	CodeTransferFailed      ErrorCode = "transfer_failed"
)

// Storage and concurrency failures.
const (
	CodeConflict           ErrorCode = "conflict"
	CodeRetryable          ErrorCode = "retryable"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodeInternal           ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", omitting empty parts.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string
	for _, p := range []string{e.Op, e.Message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ": "), e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code. A nil err stays nil.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return code != "" && CodeOf(err) == code
}
