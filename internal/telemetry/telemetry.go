// Package telemetry provides OpenTelemetry tracing for Honeycomb and the
// structured logger shared by the command line tools.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	serviceName    = "hyperarmor"
	serviceVersion = "0.1.0"
)

// Config selects where spans are exported.
type Config struct {
	// Endpoint is the OTLP/HTTP base URL, e.g. https://api.honeycomb.io.
	// Empty falls back to the standard OTEL_EXPORTER_OTLP_* variables.
	Endpoint string
	// Headers are sent with every export, e.g. x-honeycomb-team.
	Headers map[string]string
	// SampleRatio is the fraction of traces kept; 0 or less keeps all.
	SampleRatio float64
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter and registers
// it as the global tracer provider. Exporter errors are reported on logger
// rather than stderr.
//
// Returns a shutdown function that should be called on exit to flush spans.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (shutdown func(context.Context) error, err error) {
	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Built without resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("telemetry.sdk.name", "opentelemetry"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if logger != nil {
		otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			logger.Warn("telemetry export failed", zap.Error(err))
		}))
	}

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component.
// Without Setup it is backed by the global no-op provider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("hyperarmor/" + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("hyperarmor/noop")
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
