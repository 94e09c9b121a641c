package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "canvas"

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	NodeVisits    *prometheus.CounterVec
	NodeErrors    *prometheus.CounterVec
	ModelCalls    *prometheus.CounterVec
	ModelDuration *prometheus.HistogramVec
	Suspensions   *prometheus.CounterVec
	Commits       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_visits_total",
			Help:      "Total number of node visits",
		}, []string{"node_id"}),
		NodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_errors_total",
			Help:      "Nodes that returned an error",
		}, []string{"node_id"}),
		ModelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Model invocations by outcome",
		}, []string{"model", "outcome"}),
		ModelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_duration_seconds",
			Help:      "Duration of model invocations",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"model"}),
		Suspensions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suspensions_total",
			Help:      "Runs suspended awaiting approval",
		}, []string{"operation"}),
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Content versions appended",
		}, []string{"operation"}),
		gatherer: reg,
	}
	reg.MustRegister(m.NodeVisits, m.NodeErrors, m.ModelCalls, m.ModelDuration, m.Suspensions, m.Commits)
	return m
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				m.NodeErrors.WithLabelValues(e.NodeID).Inc()
			}
		},
		OnModelReturn: func(_ context.Context, e *domain.ModelEvent) {
			outcome := "ok"
			if e.IsError {
				outcome = "error"
			}
			m.ModelCalls.WithLabelValues(e.Model, outcome).Inc()
			m.ModelDuration.WithLabelValues(e.Model).Observe(e.Duration.Seconds())
		},
		OnSuspend: func(_ context.Context, e *domain.SuspendEvent) {
			m.Suspensions.WithLabelValues(string(e.Operation)).Inc()
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			m.Commits.WithLabelValues(string(e.Operation)).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
