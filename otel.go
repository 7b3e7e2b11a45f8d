package redisz

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zoobzio/redisz"

// OTelContext returns a ContextFunc backed by OpenTelemetry. Tracing is
// active when ctx carries a valid span context, local or remote.
// A nil provider resolves the global TracerProvider on every call, so a
// provider installed after Instrument is still picked up.
func OTelContext(provider trace.TracerProvider) ContextFunc {
	return func(ctx context.Context) SpanContext {
		if ctx == nil || !trace.SpanContextFromContext(ctx).IsValid() {
			return nil
		}

		p := provider
		if p == nil {
			p = otel.GetTracerProvider()
		}

		return &otelContext{
			ctx:    ctx,
			tracer: p.Tracer(instrumentationName),
		}
	}
}

// otelContext binds a tracer to the context the command was issued with.
type otelContext struct {
	ctx    context.Context
	tracer trace.Tracer
}

// StartSpan does not hand the child context to the wrapped call, which keeps
// running under the caller's span.
func (c *otelContext) StartSpan(name string) Span {
	_, span := c.tracer.Start(c.ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	return otelSpan{span: span}
}

func (c *otelContext) EndSpan(span Span) {
	if s, ok := span.(otelSpan); ok {
		s.span.End()
	}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}
