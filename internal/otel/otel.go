package otel

import (
	"context"
	"sync"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry export. If endpoint is empty, no telemetry
// is configured and the returned shutdown is a no-op.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Instrument attaches a subscriber to the run's diagnostics bus that opens
// one span per operation or fragment and records warnings as span events.
func Instrument(bus *diag.Bus) {
	sub := &subscriber{tracer: otel.Tracer("gqlmockgen")}
	sub.register(bus)
}

type subscriber struct {
	tracer trace.Tracer

	mu      sync.Mutex
	current trace.Span
	spans   map[string]trace.Span
}

func (s *subscriber) register(bus *diag.Bus) {
	s.spans = make(map[string]trace.Span)

	diag.Subscribe(bus, func(ctx context.Context, e diag.OperationStart) {
		_, span := s.tracer.Start(ctx, "generate.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.Name),
			attribute.String("graphql.operation.type", e.Kind),
		)
		s.mu.Lock()
		s.spans[e.Kind+":"+e.Name] = span
		s.current = span
		s.mu.Unlock()
	})

	diag.Subscribe(bus, func(_ context.Context, e diag.OperationFinish) {
		s.mu.Lock()
		span, ok := s.spans[e.Kind+":"+e.Name]
		delete(s.spans, e.Kind+":"+e.Name)
		if s.current == span {
			s.current = nil
		}
		s.mu.Unlock()
		if !ok {
			return
		}
		span.SetAttributes(
			attribute.Int("generate.artifact_count", e.Artifacts),
			attribute.Int("generate.warning_count", e.Warnings),
		)
		span.End()
	})

	diag.Subscribe(bus, func(_ context.Context, w diag.Warning) {
		s.mu.Lock()
		span := s.current
		s.mu.Unlock()
		if span == nil {
			return
		}
		span.AddEvent("warning", trace.WithAttributes(
			attribute.String("message", w.WarningMessage()),
		))
	})
}
