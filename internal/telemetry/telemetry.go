// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package telemetry sets up OpenTelemetry tracing for lifecycle commands
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope of every vmctl span
const TracerName = "github.com/gcevm/vmctl"

// Provider hands out the tracer and flushes spans on shutdown
type Provider struct {
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

// Setup returns a provider exporting spans as JSON to w when enabled, and a
// no-op provider otherwise
func Setup(enabled bool, w io.Writer, runID string) (*Provider, error) {
	if !enabled {
		return Noop(), nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "vmctl"),
			attribute.String("vmctl.run_id", runID),
		)),
	)
	return &Provider{tracer: tp.Tracer(TracerName), shutdown: tp.Shutdown}, nil
}

// Noop returns a provider whose spans are discarded
func Noop() *Provider {
	return &Provider{
		tracer:   noop.NewTracerProvider().Tracer(TracerName),
		shutdown: func(context.Context) error { return nil },
	}
}

// Tracer returns the tracer for lifecycle spans
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
