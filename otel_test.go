package redisz_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/zoobzio/redisz"
)

func newTestProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)), sr
}

func TestOTelContextAbsent(t *testing.T) {
	tp, _ := newTestProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	fetch := redisz.OTelContext(tp)
	if sc := fetch(context.Background()); sc != nil {
		t.Error("Expected no context without a parent span")
	}
	//nolint:staticcheck // A nil context must not panic.
	if sc := fetch(nil); sc != nil {
		t.Error("Expected no context for a nil context")
	}
}

func TestOTelContextSpan(t *testing.T) {
	tp, sr := newTestProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")

	interceptor := redisz.NewInterceptor(fakeDescriptor{host: "cache.internal"}, redisz.WithTracerProvider(tp))
	err := interceptor.Command(ctx, []interface{}{"GET", "key"}, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	parent.End()

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("Expected 2 ended spans, got %d", len(ended))
	}

	span := ended[0]
	if span.Name() != "Redis GET" {
		t.Errorf("Expected span name 'Redis GET', got %s", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Errorf("Expected client span kind, got %v", span.SpanKind())
	}
	if span.Parent().SpanID() != parent.SpanContext().SpanID() {
		t.Error("Expected command span to be a child of the active span")
	}

	var found bool
	for _, kv := range span.Attributes() {
		if kv.Key == attribute.Key(redisz.HostAttribute) && kv.Value.AsString() == "cache.internal" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected http.host=cache.internal, got %v", span.Attributes())
	}
}

func TestOTelContextRemoteParent(t *testing.T) {
	tp, sr := newTestProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	remote := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), remote)

	interceptor := redisz.NewInterceptor(fakeDescriptor{host: "cache"}, redisz.WithTracerProvider(tp))
	_ = interceptor.Batch(ctx, redisz.BatchPipeline, func(context.Context) error { return nil })

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("Expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "Redis pipeline" {
		t.Errorf("Expected 'Redis pipeline', got %s", ended[0].Name())
	}
	if ended[0].SpanContext().TraceID() != remote.TraceID() {
		t.Error("Expected span to join the remote trace")
	}
}

func TestOTelContextEndsForeignSpanSafely(t *testing.T) {
	tp, sr := newTestProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")
	defer parent.End()

	sc := redisz.OTelContext(tp)(ctx)
	if sc == nil {
		t.Fatal("Expected an active context")
	}
	sc.EndSpan(fakeSpan{})

	if len(sr.Ended()) != 0 {
		t.Errorf("Expected no spans to end, got %d", len(sr.Ended()))
	}
}

type fakeSpan struct{}

func (fakeSpan) SetAttribute(_, _ string) {}

func TestOTelCallKeepsCallerContext(t *testing.T) {
	tp, sr := newTestProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")
	defer parent.End()

	var seen trace.SpanContext
	interceptor := redisz.NewInterceptor(fakeDescriptor{host: "cache.internal"}, redisz.WithTracerProvider(tp))
	err := interceptor.Command(ctx, []interface{}{"GET", "key"}, func(callCtx context.Context) error {
		seen = trace.SpanContextFromContext(callCtx)
		return nil
	})
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("Expected 1 ended span, got %d", len(ended))
	}
	if seen.SpanID() != parent.SpanContext().SpanID() {
		t.Errorf("Expected the call to run under the caller's span %s, got %s", parent.SpanContext().SpanID(), seen.SpanID())
	}
	if seen.SpanID() == ended[0].SpanContext().SpanID() {
		t.Error("Expected the Redis span not to be placed in the call's context")
	}
}
