// Package mtelemetry wires OpenTelemetry tracing for the service. It is
// deliberately tracing-only (see DESIGN.md): metrics and the OTLP log
// bridge the teacher repo also wires are out of scope here. Log lines
// carry no trace IDs; pkg/nethttp's WithLogging adds a per-request
// correlation_id field instead.
package mtelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry holds the tracer provider and exposes a named Tracer.
type Telemetry struct {
	ServiceName    string
	ServiceVersion string
	TracerProvider *sdktrace.TracerProvider
	shutdown       func(context.Context) error
}

// New builds a Telemetry. If endpoint is empty, traces are recorded but
// never exported (a no-op exporter), which keeps local/dev runs free of a
// collector dependency.
func New(ctx context.Context, serviceName, serviceVersion, endpoint string) (*Telemetry, error) {
	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	var opts []sdktrace.TracerProviderOption
	opts = append(opts, sdktrace.WithResource(res))

	shutdown := func(context.Context) error { return nil }

	if endpoint != "" {
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdktrace.WithBatcher(exp))
		shutdown = exp.Shutdown
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Telemetry{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		TracerProvider: tp,
		shutdown:       shutdown,
	}, nil
}

// Tracer returns the named tracer for this service.
//
//nolint:ireturn
func (t *Telemetry) Tracer() trace.Tracer {
	return otel.Tracer(t.ServiceName)
}

// Shutdown flushes and closes the exporter.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.shutdown(ctx); err != nil {
		return err
	}

	return t.TracerProvider.Shutdown(ctx)
}

// SetSpanError marks span as failed and records err on it.
func SetSpanError(span *trace.Span, message string, err error) {
	(*span).SetStatus(codes.Error, message+": "+err.Error())
	(*span).RecordError(err)
}

// SetSpanOK marks span as succeeded.
func SetSpanOK(span *trace.Span) {
	(*span).SetStatus(codes.Ok, "")
}

// SetAttr sets a string attribute on span.
func SetAttr(span *trace.Span, key, value string) {
	(*span).SetAttributes(attribute.KeyValue{Key: attribute.Key(key), Value: attribute.StringValue(value)})
}
