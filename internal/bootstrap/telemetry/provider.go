package telemetry

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"conferencehall/internal/bootstrap/config"
	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/errs"
)

// Setup registers a global OTLP tracer provider when telemetry is enabled
// and an endpoint is configured. Otherwise it returns a no-op shutdown and the
// global no-op provider stays in place.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !cfg.Enabled || endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, errs.Wrap(err, "create otlp exporter")
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "conferencehall"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, errs.Wrap(err, "build otel resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.telemetry")),
		"tracing enabled",
		slog.String("endpoint", endpoint),
		slog.String("service_name", serviceName),
	)
	return tp.Shutdown, nil
}
