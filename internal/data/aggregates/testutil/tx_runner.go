package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/marketledger-backend/internal/data/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

// InjectedTxRunner is a test helper for aggregate integration tests.
// It supports rollback/failure injection. When Inner is set the body runs in
// Inner's real transaction, and an injected commit failure is raised inside it
// so the real transaction rolls back.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	inner := r.Inner
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.count(&r.RollbackCalls)
		return failBeforeBody
	}
	if fn == nil {
		r.count(&r.CommitCalls)
		return nil
	}

	body := func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return failCommit
	}
	var err error
	if inner != nil {
		err = inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}
	if err != nil {
		r.count(&r.RollbackCalls)
		return err
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) count(field *int) {
	r.mu.Lock()
	*field++
	r.mu.Unlock()
}
