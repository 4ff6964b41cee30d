package tracing

import (
	"context"
	"time"

	"github.com/lshigami/pte-scorer/config"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/lshigami/pte-scorer"

// Init installs the global tracer provider. When tracing is disabled the
// provider has no exporter, so spans are created but never shipped.
func Init(cfg *config.Config) (func(context.Context) error, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Tracing.ServiceName),
		attribute.String("service.component", "scoring"),
	)

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.Tracing.Enabled {
		exp, err := stdouttrace.New()
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info().Bool("export", cfg.Tracing.Enabled).Str("service", cfg.Tracing.ServiceName).Msg("Tracing initialized")
	return tp.Shutdown, nil
}

// Tracer returns the tracer used by pipeline stages.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
