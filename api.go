// Package redisz instruments a Redis client so that every command produces a
// distributed-tracing span.
//
// redisz does not trace anything itself. It joins an ambient tracing context
// when one is present on the call's context.Context and stays out of the way
// when it is not: no span, no allocation, no change to the reply or error.
//
// Basic Usage:.
//
//	rdb := redis.NewClient(&redis.Options{Addr: "cache:6379"})
//	redisz.Instrument(rdb)
//
//	ctx, span := otel.Tracer("app").Start(ctx, "handler")
//	defer span.End()
//
//	rdb.Get(ctx, "user:1") // produces a child span "Redis get".
//
// Span Shape:.
//
// Single commands are named "Redis <command>", where the command is the first
// argument exactly as the client sent it. Pipelines are named
// "Redis pipeline" and MULTI/EXEC transactions "Redis multi". Every span
// carries one attribute, http.host, holding the remote host, "localhost" for
// unix-socket connections, or "unknown" when the connection cannot be read.
//
// Installation:.
//
// Instrument is safe to call more than once for the same client; only the
// first call adds the hook. Installation failures are logged and the client
// is returned unchanged - instrumentation is never the reason a command fails.
//
// Tracing Contexts:.
//
// By default redisz looks for an OpenTelemetry span on the context. Any other
// tracer can take part by implementing SpanContext and passing a ContextFunc
// through WithContextFunc, or by attaching one per call with WithSpanContext.
package redisz

const (
	// SystemName prefixes every span name.
	SystemName = "Redis"

	// HostAttribute is the span attribute carrying the remote host.
	HostAttribute = "http.host"

	// Localhost is reported for path-based (unix socket) connections.
	Localhost = "localhost"

	// Unknown is reported when the connection descriptor cannot be read, and
	// used as the operation of a command with no arguments.
	Unknown = "unknown"
)

// Batch operation names.
const (
	OperationPipeline = "pipeline"
	OperationMulti    = "multi"
)
