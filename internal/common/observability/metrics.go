package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"school-activities/internal/common/logger"
)

// Observability bundles the otel meter and tracer used around registry
// operations. A zero value is usable and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerShutdown func(context.Context) error
	tracer         trace.Tracer
	opCounter      otelmetric.Int64Counter
	opDuration     otelmetric.Float64Histogram
}

// New wires an otel MeterProvider to the Prometheus default registry, so the
// operation metrics appear on /metrics next to the promauto ones.
func New(serviceName string, log logger.Logger) *Observability {
	o := &Observability{tracer: otel.Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter, operation metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	o.meterProvider = provider

	meter := provider.Meter(serviceName)

	o.opCounter, _ = meter.Int64Counter(
		"registry.operations",
		otelmetric.WithDescription("Number of registry operations by outcome"),
	)

	o.opDuration, _ = meter.Float64Histogram(
		"registry.operation.duration",
		otelmetric.WithDescription("Registry operation duration"),
		otelmetric.WithUnit("ms"),
	)

	return o
}

// Noop returns an Observability that records nothing.
func Noop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// StartSpan starts a span named after the registry operation.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("school-activities")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordOperation counts one operation and records its duration.
// outcome is "ok" or the error code.
func (o *Observability) RecordOperation(ctx context.Context, op, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	if o.opCounter != nil {
		o.opCounter.Add(ctx, 1, attrs)
	}
	if o.opDuration != nil {
		o.opDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerShutdown != nil {
		_ = o.tracerShutdown(ctx)
	}
}
