package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

func TestExecuteWriteReportsStatusPerOutcome(t *testing.T) {
	cases := []struct {
		name      string
		fnErr     error
		status    string
		conflicts int
		retries   int
	}{
		{name: "success", status: "success"},
		{name: "marketplace code", fnErr: domainagg.NewError(domainagg.CodeInsufficientPayment, "op", "short", nil), status: "insufficient_payment"},
		{name: "invariant", fnErr: InvariantError("order without product"), status: "invariant_violation"},
		{name: "conflict", fnErr: ConflictError("stale stock"), status: "conflict", conflicts: 1},
		{name: "retryable", fnErr: RetryableError("lock timeout"), status: "retryable", retries: 1},
		{name: "untyped", fnErr: errors.New("disk on fire"), status: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: passthroughRunner{}, Hooks: hooks}, "Marketplace.Test",
				func(dbctx.Context) error { return tc.fnErr })
			if (err == nil) != (tc.fnErr == nil) {
				t.Fatalf("err=%v want error=%v", err, tc.fnErr != nil)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != tc.status {
				t.Fatalf("operations=%+v want status %s", hooks.Operations, tc.status)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsBlankOpName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeWrite(context.Background(), BaseDeps{Runner: passthroughRunner{}, Hooks: hooks}, "  ",
		func(dbctx.Context) error { return nil })
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("operations=%+v", hooks.Operations)
	}
}

func TestAggregateErrorStatusMapsDeadline(t *testing.T) {
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline status=%s", got)
	}
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status=%s", got)
	}
}

func TestBaseDepsClockIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := BaseDeps{Clock: func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, loc) }}
	if got := d.now(); got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("now=%v want 00:00 UTC", got)
	}
}

func TestContractsDeclareWriteSets(t *testing.T) {
	f := newMarketFixture(t)
	cases := []struct {
		agg   domainagg.Aggregate
		table string
	}{
		{f.catalog, "product"},
		{f.purchase, "transfer"},
		{f.delivery, "product_order"},
		{f.platform, "platform_settings"},
	}
	for _, tc := range cases {
		c := tc.agg.Contract()
		if !c.Touches(tc.table) || !c.Touches("marketplace_event") {
			t.Fatalf("%s should write %s and marketplace_event: %v", c.Name, tc.table, c.Writes)
		}
	}
	if f.delivery.Contract().Touches("account") {
		t.Fatalf("delivery must not move funds")
	}
}

type passthroughRunner struct{}

func (passthroughRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	mu sync.Mutex

	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}
