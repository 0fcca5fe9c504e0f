// Package metrics exposes relay counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Metrics tracks:
//   - messages delivered per sink and severity
//   - sink write failures per sink
//   - syslog formats that fell back to the default template
//   - render failures per tracker
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	messages        *prometheus.CounterVec
	sinkErrors      *prometheus.CounterVec
	formatFallbacks prometheus.Counter
	renderFailures  *prometheus.CounterVec

	handler http.Handler
}

// New registers the relay counters on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eventlogtrack_messages_total",
			Help: "Total number of messages delivered, by sink and severity",
		}, []string{"sink", "severity"}),
		sinkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eventlogtrack_sink_errors_total",
			Help: "Total number of failed sink writes",
		}, []string{"sink"}),
		formatFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "eventlogtrack_format_fallbacks_total",
			Help: "Total number of invalid syslog formats replaced by the default",
		}),
		renderFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eventlogtrack_render_failures_total",
			Help: "Total number of templates with malformed tokens",
		}, []string{"tracker"}),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.handler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	} else {
		m.handler = promhttp.Handler()
	}
	return m
}

// Delivered counts one message written to sink.
func (m *Metrics) Delivered(sink string, sev model.Severity) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(sink, sev.String()).Inc()
}

// SinkError counts one failed write to sink.
func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// FormatFallback counts one invalid format replaced by the default.
func (m *Metrics) FormatFallback() {
	if m == nil {
		return
	}
	m.formatFallbacks.Inc()
}

// RenderFailure counts one template with malformed tokens.
func (m *Metrics) RenderFailure(tracker string) {
	if m == nil {
		return
	}
	m.renderFailures.WithLabelValues(tracker).Inc()
}

// Handler serves the registered metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}
