// Package telemetry wires slog and OpenTelemetry for the simulator.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrUnknownExporter is returned by Init for an unsupported exporter name.
var ErrUnknownExporter = errors.New("telemetry: unknown exporter")

// ShutdownFunc flushes and releases the installed providers.
type ShutdownFunc func(context.Context) error

// Config selects the exporter.
type Config struct {
	// Exporter is "stdout" or "none".
	Exporter string
	// Writer receives stdout exporter output; os.Stderr when nil.
	Writer io.Writer
	// Interval is the metric export period; one minute when zero.
	Interval time.Duration
}

// Init installs global tracer and meter providers. With Exporter "none" the
// global no-op providers stay in place and the returned shutdown does nothing.
func Init(service, version string, cfg Config) (ShutdownFunc, error) {
	switch cfg.Exporter {
	case "none":
		return func(context.Context) error { return nil }, nil
	case "", "stdout":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, cfg.Exporter)
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	res := resource.NewSchemaless(
		semconv.ServiceName(service),
		semconv.ServiceVersion(version),
	)

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(res),
	)

	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
