package observability

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/marketledger-backend/internal/platform/envutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

const tracerName = "marketledger"

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// exportSettings mirrors the OTEL_* environment.
type exportSettings struct {
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

// OTelEnabled reports whether OTEL_ENABLED asks for tracing.
func OTelEnabled() bool {
	return envutil.Bool("OTEL_ENABLED", false)
}

func loadExportSettings() exportSettings {
	ratio := 0.1
	if raw := envutil.String("OTEL_SAMPLER_RATIO", ""); raw != "" {
		ratio = parseRatio(raw, ratio)
	}
	return exportSettings{
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Headers:     parseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio: ratio,
	}
}

// InitOTel installs the global tracer provider once. The returned shutdown is
// nil when tracing is disabled.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		if !OTelEnabled() {
			return
		}
		if log == nil {
			log = logger.Nop()
		}
		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = tracerName
		}
		settings := loadExportSettings()

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))),
			sdktrace.WithResource(res),
		}
		exporter, err := newExporter(ctx, settings)
		switch {
		case err != nil:
			log.Warn("otel exporter init failed (continuing)", "error", err)
		case settings.Endpoint == "":
			log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
		}
		if exporter != nil {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("otel tracing initialized", "service", name, "endpoint", settings.Endpoint, "ratio", settings.SampleRatio)
	})
	return otelShutdown
}

// StartSpan opens a span on the global provider. Without InitOTel the span is a no-op.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func newExporter(ctx context.Context, s exportSettings) (sdktrace.SpanExporter, error) {
	if s.Endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(s.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(s.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// parseHeaders reads "k1=v1,k2=v2". Malformed pairs are dropped.
func parseHeaders(raw string) map[string]string {
	var out map[string]string
	for _, part := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(part, "=")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = val
	}
	return out
}

func parseRatio(raw string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return min(max(f, 0), 1)
}
