package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ratingsSubmitted metric.Int64Counter
	rateLimitAllowed metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
	cacheHits        metric.Int64Counter
	cacheMisses      metric.Int64Counter
	cacheRefreshes   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "uwazi"
	}
	meter := provider.Meter(name)

	ratingsSubmitted, err := meter.Int64Counter("uwazi_ratings_submitted_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("uwazi_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("uwazi_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}
	cacheHits, err := meter.Int64Counter("uwazi_cache_hits_total")
	if err != nil {
		return nil, err
	}
	cacheMisses, err := meter.Int64Counter("uwazi_cache_misses_total")
	if err != nil {
		return nil, err
	}
	cacheRefreshes, err := meter.Int64Counter("uwazi_cache_refreshes_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ratingsSubmitted: ratingsSubmitted,
		rateLimitAllowed: rateLimitAllowed,
		rateLimitDenied:  rateLimitDenied,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		cacheRefreshes:   cacheRefreshes,
	}, nil
}

// RecordRatingSubmitted increments rating submission counts.
func (m *Metrics) RecordRatingSubmitted(ctx context.Context, targetType string, count int64) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("target_type", strings.TrimSpace(targetType)))
	m.ratingsSubmitted.Add(ctx, count, metric.WithAttributes(attrs...))
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, targetType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("target_type", strings.TrimSpace(targetType)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, targetType, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("target_type", strings.TrimSpace(targetType)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheHit increments cache hit counts for a view.
func (m *Metrics) RecordCacheHit(ctx context.Context, view string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("view", strings.TrimSpace(view)))
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheMiss increments cache miss counts for a view.
func (m *Metrics) RecordCacheMiss(ctx context.Context, view string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("view", strings.TrimSpace(view)))
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheRefresh increments background refresh counts for a view.
func (m *Metrics) RecordCacheRefresh(ctx context.Context, view string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("view", strings.TrimSpace(view)))
	m.cacheRefreshes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"target_type": {},
	"view":        {},
	"reason":      {},
	"status_code": {},
	"endpoint":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
