package observability

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"school-activities/internal/common/config"
)

// EnableTracing installs a batching Jaeger exporter as the global tracer
// provider. It is a no-op when tracing is disabled in config.
func (o *Observability) EnableTracing(serviceName, version string, cfg config.TracingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
	if err != nil {
		return fmt.Errorf("create jaeger exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
	)
	otel.SetTracerProvider(provider)

	o.tracer = provider.Tracer(serviceName)
	o.tracerShutdown = provider.Shutdown
	return nil
}
