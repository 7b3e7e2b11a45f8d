package redisz

import (
	"context"
	"fmt"
)

// BatchKind classifies a batched execution.
type BatchKind int

const (
	// BatchPipeline is a plain pipeline with no atomicity guarantee.
	BatchPipeline BatchKind = iota
	// BatchMulti is a MULTI/EXEC transaction.
	BatchMulti
)

// Operation returns the span operation for the batch kind.
func (k BatchKind) Operation() string {
	if k == BatchMulti {
		return OperationMulti
	}
	return OperationPipeline
}

// String implements fmt.Stringer.
func (k BatchKind) String() string {
	return k.Operation()
}

// SpanName builds the span name for an operation.
func SpanName(operation string) string {
	return SystemName + " " + operation
}

// Interceptor opens one span around each command or batch it is handed.
// It holds no per-call state and is safe for concurrent use.
type Interceptor struct {
	descriptor Descriptor
	current    ContextFunc
	metrics    *metrics
}

// NewInterceptor creates an interceptor reporting d as the remote host.
func NewInterceptor(d Descriptor, opts ...Option) *Interceptor {
	return newInterceptor(d, newConfig(opts))
}

func newInterceptor(d Descriptor, cfg *config) *Interceptor {
	return &Interceptor{
		descriptor: d,
		current:    cfg.contextFunc,
		metrics:    cfg.metrics,
	}
}

// Command runs call inside a span named after the first element of args.
// The result of call is returned unchanged.
func (i *Interceptor) Command(ctx context.Context, args []interface{}, call func(context.Context) error) error {
	sc := i.current(ctx)
	if sc == nil {
		return call(ctx)
	}
	return i.traced(ctx, sc, commandKind, operationOf(args), call)
}

// Batch runs call inside a span named after the batch kind.
// The result of call is returned unchanged.
func (i *Interceptor) Batch(ctx context.Context, kind BatchKind, call func(context.Context) error) error {
	sc := i.current(ctx)
	if sc == nil {
		return call(ctx)
	}
	return i.traced(ctx, sc, kind.Operation(), kind.Operation(), call)
}

func (i *Interceptor) traced(ctx context.Context, sc SpanContext, kind, operation string, call func(context.Context) error) error {
	span := sc.StartSpan(SpanName(operation))
	defer sc.EndSpan(span)

	host := ResolveHost(i.descriptor)
	if host == Unknown {
		i.metrics.hostFallback()
	}
	span.SetAttribute(HostAttribute, host)
	i.metrics.spanStarted(kind)

	return call(ctx)
}

// operationOf returns the command name as sent, without case folding.
func operationOf(args []interface{}) string {
	if len(args) == 0 {
		return Unknown
	}
	switch name := args[0].(type) {
	case string:
		return name
	case []byte:
		return string(name)
	default:
		return fmt.Sprint(name)
	}
}
