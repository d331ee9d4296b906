package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/data/repos"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
)

var (
	ErrValidation = errors.New("aggregate validation")
	ErrInvariant  = errors.New("aggregate invariant violation")
	ErrConflict   = errors.New("aggregate conflict")
	ErrRetryable  = errors.New("aggregate retryable")
)

func ValidationError(msg string) error { return tagged(ErrValidation, msg) }
func InvariantError(msg string) error  { return tagged(ErrInvariant, msg) }
func ConflictError(msg string) error   { return tagged(ErrConflict, msg) }
func RetryableError(msg string) error  { return tagged(ErrRetryable, msg) }

func tagged(sentinel error, msg string) error {
	return errors.Join(sentinel, errors.New(strings.TrimSpace(msg)))
}

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeInvalidInput},
	{ErrInvariant, domainagg.CodeInvariantViolation},
	{ErrConflict, domainagg.CodeConflict},
	{ErrRetryable, domainagg.CodeRetryable},
	{repos.ErrSequenceContention, domainagg.CodeRetryable},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// SQLSTATE classes: unique_violation, foreign_key_violation,
// serialization_failure, deadlock_detected, lock_not_available.
var pgCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,
	"23503": domainagg.CodeInvariantViolation,
	"40001": domainagg.CodeRetryable,
	"40P01": domainagg.CodeRetryable,
	"55P03": domainagg.CodeRetryable,
}

// Driver messages that carry no structured code (mostly sqlite).
var messageCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"duplicate key", domainagg.CodeConflict},
	{"unique constraint failed", domainagg.CodeConflict},
	{"already exists", domainagg.CodeConflict},
	{"database is locked", domainagg.CodeRetryable},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
	{"temporar", domainagg.CodeRetryable},
}

// MapError classifies err into an aggregate error for op. Errors that already
// carry a code pass through unchanged; anything unrecognised is internal.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range messageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return domainagg.CodeInternal
}
