// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// Init configures the stdout exporter. "-" writes spans to os.Stdout, any other
// value is a file path. An empty output leaves the no-op global provider in place.
func Init(serviceName, serviceVersion, output string) (ShutdownFunc, error) {
	if output == "" {
		return func(context.Context) error { return nil }, nil
	}

	var (
		w      io.Writer = os.Stdout
		closer io.Closer
	)
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	tp, err := InitWithExporter(serviceName, serviceVersion, exporter)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// InitWithExporter registers exporter behind a batching provider as the global
// tracer provider and returns it.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
