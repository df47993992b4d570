package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dimerapp/config-parser/internal/dimer"
)

// Parse and init outcomes.
const (
	OutcomeValid    = "valid"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeCreated  = "created"
	OutcomeExists   = "exists"
)

const namespace = "dimer_config"

// Metrics holds the Prometheus collectors for config parsing and the MCP tools.
// A nil *Metrics records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	parses           *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	inits            *prometheus.CounterVec
	toolCalls        *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		parses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Number of dimer.json parses by outcome",
		}, []string{"outcome"}),
		validationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Validation errors reported by rule",
		}, []string{"rule"}),
		inits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inits_total",
			Help:      "Number of init calls by outcome",
		}, []string{"outcome"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and status",
		}, []string{"tool", "status"}),
	}
}

// ObserveParse counts one parse and its validation errors.
func (m *Metrics) ObserveParse(outcome string, errs []dimer.ErrorRecord) {
	if m == nil {
		return
	}
	m.parses.WithLabelValues(outcome).Inc()
	for _, e := range errs {
		m.validationErrors.WithLabelValues(e.RuleID).Inc()
	}
}

// ObserveInit counts one init call.
func (m *Metrics) ObserveInit(outcome string) {
	if m == nil {
		return
	}
	m.inits.WithLabelValues(outcome).Inc()
}

// ObserveToolCall counts one MCP tool call.
func (m *Metrics) ObserveToolCall(tool, status string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
