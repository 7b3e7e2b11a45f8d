package redisz

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures Instrument and NewInterceptor.
type Option func(*options)

type options struct {
	contextFunc ContextFunc
	logger      *zap.Logger
	registerer  prometheus.Registerer
}

// config is the resolved form of a set of options.
type config struct {
	contextFunc ContextFunc
	logger      *zap.Logger
	metrics     *metrics
}

// WithContextFunc replaces the tracing context lookup.
func WithContextFunc(fn ContextFunc) Option {
	return func(o *options) {
		o.contextFunc = fn
	}
}

// WithTracerProvider traces through provider instead of the global
// OpenTelemetry TracerProvider. A SpanContext attached with WithSpanContext
// still takes precedence.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		o.contextFunc = ChainContexts(SpanContextFromContext, OTelContext(provider))
	}
}

// WithLogger sets the logger used for installation diagnostics.
// Defaults to zap.L().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers the instrumentation metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func newConfig(opts []Option) *config {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	cfg := &config{
		contextFunc: o.contextFunc,
		logger:      o.logger,
		metrics:     newMetrics(o.registerer),
	}
	if cfg.contextFunc == nil {
		cfg.contextFunc = DefaultContext()
	}
	if cfg.logger == nil {
		cfg.logger = zap.L()
	}
	return cfg
}
