package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "biogas_balance"

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	// Requests counts HTTP requests by method, route and status code.
	Requests *prometheus.CounterVec

	// Calculations counts engine runs by stage and outcome (ok, rejected).
	Calculations *prometheus.CounterVec

	// CalculationSeconds observes engine run latency by stage.
	CalculationSeconds *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg, plus the Go and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "Balance calculations, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		CalculationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent in the balance engine, by stage.",
			Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
		}, []string{"stage"}),
	}
}
