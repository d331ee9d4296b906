package aggregates

import (
	"time"

	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

// Hooks receives one ObserveOperation per write, plus a conflict or retry
// signal when the write failed that way.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	metrics *observability.Metrics
}

func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(name, status, dur)
}
func (h metricsHooks) IncConflict(name string) { h.metrics.IncAggregateConflict(name) }
func (h metricsHooks) IncRetry(name string)    { h.metrics.IncAggregateRetry(name) }

type logHooks struct {
	log *logger.Logger
}

// NewLogHooks logs every failed write at warn; successes go to debug.
func NewLogHooks(log *logger.Logger) Hooks {
	if log == nil {
		return noopHooks{}
	}
	return logHooks{log: log.With("component", "AggregateHooks")}
}

func (h logHooks) ObserveOperation(name, status string, dur time.Duration) {
	if status == "success" {
		h.log.Debug("Aggregate write committed", "op", name, "duration", dur)
		return
	}
	h.log.Warn("Aggregate write rolled back", "op", name, "status", status, "duration", dur)
}
func (h logHooks) IncConflict(name string) { h.log.Warn("Aggregate write conflicted", "op", name) }
func (h logHooks) IncRetry(name string)    { h.log.Warn("Aggregate write retryable", "op", name) }

type chainHooks []Hooks

// ChainHooks fans each signal out to every hook in order.
func ChainHooks(hooks ...Hooks) Hooks {
	out := make(chainHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (c chainHooks) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range c {
		h.ObserveOperation(name, status, dur)
	}
}

func (c chainHooks) IncConflict(name string) {
	for _, h := range c {
		h.IncConflict(name)
	}
}

func (c chainHooks) IncRetry(name string) {
	for _, h := range c {
		h.IncRetry(name)
	}
}
