package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the wizard's Prometheus collectors.
type Metrics struct {
	Runs           prometheus.Counter
	StepVisits     *prometheus.CounterVec
	Stage          prometheus.Gauge
	ActionDuration *prometheus.HistogramVec
	ActionErrors   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagewizard_runs_total",
			Help: "Total number of wizard runs started",
		}),
		StepVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagewizard_step_visits_total",
			Help: "Total number of step visits",
		}, []string{"step_id", "step_type"}),
		Stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pagewizard_progress_stage",
			Help: "Progress stage of the current run",
		}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagewizard_action_duration_seconds",
			Help:    "Duration of backend actions",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"action"}),
		ActionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagewizard_action_errors_total",
			Help: "Total number of failed backend actions",
		}, []string{"action"}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{m.Runs, m.StepVisits, m.Stage, m.ActionDuration, m.ActionErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records lifecycle events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.EventBase) {
			m.Runs.Inc()
		},
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.StepID, string(e.StepType)).Inc()
			m.Stage.Set(float64(e.Stage))
		},
		OnActionReturn: func(_ context.Context, e *domain.ActionEvent) {
			m.ActionDuration.WithLabelValues(e.Action).Observe(e.Duration.Seconds())
			if e.IsError {
				m.ActionErrors.WithLabelValues(e.Action).Inc()
			}
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
