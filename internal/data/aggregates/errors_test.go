package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeInvalidInput) {
		t.Fatalf("expected invalid_input code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_PassthroughWrappedAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeTransferFailed, "payments.Transfer", "refused", nil)
	out := MapError("Marketplace.Purchase", fmt.Errorf("disburse: %w", in))
	if !domainagg.IsCode(out, domainagg.CodeTransferFailed) {
		t.Fatalf("expected transfer_failed passthrough, got %q (%v)", domainagg.CodeOf(out), out)
	}
}

func TestMapError_StorageFailures(t *testing.T) {
	cases := []struct {
		err  error
		want domainagg.ErrorCode
	}{
		{&pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{&pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{&pgconn.PgError{Code: "55P03"}, domainagg.CodeRetryable},
		{errors.New("UNIQUE constraint failed: product.id"), domainagg.CodeConflict},
		{errors.New("database is locked"), domainagg.CodeRetryable},
		{repos.ErrSequenceContention, domainagg.CodeRetryable},
		{context.Canceled, domainagg.CodeRetryable},
		{errors.New("disk on fire"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		if got := domainagg.CodeOf(MapError("op", tc.err)); got != tc.want {
			t.Fatalf("MapError(%v): want=%s got=%s", tc.err, tc.want, got)
		}
	}
}
