package observability

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/platform/envutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	purchases      *Counter
	purchaseVolume *CounterVec
	eventsPublish  *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func scrapeInterval() time.Duration {
	if d := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 0); d > 0 {
		return d
	}
	return 10 * time.Second
}

// Init builds the process-wide metrics registry. Returns nil when METRICS_ENABLED is off.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// NewMetrics returns a standalone registry, independent of Init.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("ml_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"ml_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("ml_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("ml_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("ml_api_requests_error_total", "Total API requests answered with 5xx."),

		aggregateOps: NewCounterVec("ml_aggregate_operations_total", "Aggregate write operations by name/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"ml_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by name/status.",
			[]string{"operation", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		aggregateConflicts: NewCounterVec("ml_aggregate_conflicts_total", "Aggregate conflicts by operation.", []string{"operation"}),
		aggregateRetries:   NewCounterVec("ml_aggregate_retryable_total", "Aggregate retryable failures by operation.", []string{"operation"}),

		purchases:      NewCounter("ml_purchases_total", "Committed purchases."),
		purchaseVolume: NewCounterVec("ml_purchase_amount_total", "Disbursed amounts by kind.", []string{"kind"}),
		eventsPublish:  NewCounterVec("ml_events_published_total", "Bus publishes by event kind/status.", []string{"kind", "status"}),

		pgStats:   NewGaugeVec("ml_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("ml_redis_up", "Redis reachability (1 = up)."),
		redisPing: NewGauge("ml_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.purchases, m.purchaseVolume, m.eventsPublish,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(name, status)
	m.aggregateLatency.Observe(dur.Seconds(), name, status)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(name)
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(name)
}

// ObservePurchase records a committed purchase and its disbursement split.
func (m *Metrics) ObservePurchase(totalCost, platformFee, refund uint64) {
	if m == nil {
		return
	}
	m.purchases.Inc()
	m.purchaseVolume.Add(float64(totalCost), "total_cost")
	m.purchaseVolume.Add(float64(platformFee), "platform_fee")
	m.purchaseVolume.Add(float64(totalCost-platformFee), "seller_proceeds")
	if refund > 0 {
		m.purchaseVolume.Add(float64(refund), "refund")
	}
}

func (m *Metrics) IncEventPublish(kind, status string) {
	if m == nil {
		return
	}
	m.eventsPublish.Inc(kind, status)
}

func (m *Metrics) EventPublishCount(kind, status string) float64 {
	if m == nil {
		return 0
	}
	return m.eventsPublish.Value(kind, status)
}

// AggregateStat is one operation/status row of the aggregate counters.
type AggregateStat struct {
	Labels string  `json:"labels"`
	Count  float64 `json:"count"`
}

// AggregateSnapshot lists aggregate operation counters sorted by label set.
func (m *Metrics) AggregateSnapshot() []AggregateStat {
	if m == nil {
		return nil
	}
	values := m.aggregateOps.Snapshot()
	out := make([]AggregateStat, 0, len(values))
	for k, v := range values {
		out = append(out, AggregateStat{Labels: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Labels < out[j].Labels })
	return out
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
				m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := scrapeInterval()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
