package redisz

import "context"

// Span is the part of a tracing span redisz writes to.
type Span interface {
	SetAttribute(key, value string)
}

// SpanContext is an active tracing context. It owns the lifetime of the
// spans it starts; redisz only holds them for the duration of one call.
type SpanContext interface {
	// StartSpan opens a span as a child of the current span chain.
	StartSpan(name string) Span
	// EndSpan closes a span returned by StartSpan.
	EndSpan(span Span)
}

// ContextFunc reports the tracing context active on ctx.
// A nil SpanContext means tracing is inactive for the call.
type ContextFunc func(ctx context.Context) SpanContext

// spanContextKeyType is a private type for context keys to avoid collisions.
type spanContextKeyType string

const (
	spanContextKey spanContextKeyType = "redisz"
)

// WithSpanContext returns a context carrying sc. Commands issued with the
// returned context are traced through sc regardless of any other tracer.
func WithSpanContext(parent context.Context, sc SpanContext) context.Context {
	return context.WithValue(parent, spanContextKey, sc)
}

// SpanContextFromContext extracts a SpanContext attached with WithSpanContext.
// Returns nil if none is present.
func SpanContextFromContext(ctx context.Context) SpanContext {
	if ctx == nil {
		return nil
	}

	if sc, ok := ctx.Value(spanContextKey).(SpanContext); ok {
		return sc
	}

	return nil
}

// ChainContexts returns a ContextFunc that asks each fn in order and reports
// the first active context.
func ChainContexts(fns ...ContextFunc) ContextFunc {
	return func(ctx context.Context) SpanContext {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if sc := fn(ctx); sc != nil {
				return sc
			}
		}
		return nil
	}
}

// DefaultContext checks for an explicitly attached SpanContext, then for an
// OpenTelemetry span using the global TracerProvider.
func DefaultContext() ContextFunc {
	return ChainContexts(SpanContextFromContext, OTelContext(nil))
}
