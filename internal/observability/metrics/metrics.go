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

// Metrics exposes billing domain instruments.
type Metrics struct {
	overdueTransitions metric.Int64Counter
	paymentsRecorded   metric.Int64Counter
	searchRequests     metric.Int64Counter
	balanceReads       metric.Int64Counter
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
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New creates the domain instruments on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(serviceName(cfg))

	overdueTransitions, err := meter.Int64Counter("estate_overdue_transitions_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("estate_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	searchRequests, err := meter.Int64Counter("estate_search_requests_total")
	if err != nil {
		return nil, err
	}
	balanceReads, err := meter.Int64Counter("estate_balance_reads_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		overdueTransitions: overdueTransitions,
		paymentsRecorded:   paymentsRecorded,
		searchRequests:     searchRequests,
		balanceReads:       balanceReads,
	}, nil
}

// RecordOverdueTransitions adds the number of records a sweep moved to overdue.
func (m *Metrics) RecordOverdueTransitions(ctx context.Context, kind, trigger string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(
		attribute.String("kind", strings.TrimSpace(kind)),
		attribute.String("trigger", strings.TrimSpace(trigger)),
	)
	m.overdueTransitions.Add(ctx, count, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPaymentRecorded(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSearch counts searches by outcome: short, ok, partial or failed.
func (m *Metrics) RecordSearch(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.searchRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordBalanceRead(ctx context.Context) {
	if m == nil {
		return
	}
	m.balanceReads.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
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

func serviceName(cfg Config) string {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		return "estate"
	}
	return name
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"kind":        {},
	"trigger":     {},
	"outcome":     {},
	"endpoint":    {},
	"status_code": {},
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
