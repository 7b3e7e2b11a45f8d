package redisz

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "redisz"

	commandKind = "command"
)

// metrics observes the instrumentation itself, never the commands.
type metrics struct {
	spans           *prometheus.CounterVec
	hostFallbacks   prometheus.Counter
	installFailures prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		spans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "spans_total",
			Help:      "Spans opened around Redis calls, by kind.",
		}, []string{"kind"}),
		hostFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "host_fallbacks_total",
			Help:      "Spans whose host attribute fell back to unknown.",
		}),
		installFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "install_failures_total",
			Help:      "Clients that could not be instrumented.",
		}),
	}

	if reg == nil {
		return m
	}

	if c, ok := register(reg, m.spans).(*prometheus.CounterVec); ok {
		m.spans = c
	}
	if c, ok := register(reg, m.hostFallbacks).(prometheus.Counter); ok {
		m.hostFallbacks = c
	}
	if c, ok := register(reg, m.installFailures).(prometheus.Counter); ok {
		m.installFailures = c
	}
	return m
}

// register returns the collector already registered under the same
// descriptor, so several clients can share one registry.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	return c
}

func (m *metrics) spanStarted(kind string) {
	if m == nil {
		return
	}
	m.spans.WithLabelValues(kind).Inc()
}

func (m *metrics) hostFallback() {
	if m == nil {
		return
	}
	m.hostFallbacks.Inc()
}

func (m *metrics) installFailed() {
	if m == nil {
		return
	}
	m.installFailures.Inc()
}
