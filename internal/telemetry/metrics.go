package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of prometheus collectors the orchestrator updates
// across a job's lifetime: queue depth, active solve count, solve
// duration, and counters for rejections and completed jobs, all on a
// private registry rather than the global default.
type Metrics struct {
	registry      *prometheus.Registry
	QueueDepth    prometheus.Gauge
	ActiveSolves  prometheus.Gauge
	SolveDuration prometheus.Histogram
	Rejections    *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
}

// NewMetrics constructs and registers every collector on a fresh
// registry, so test code can build independent Metrics instances
// without colliding with prometheus's global default registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "temple_solver_queue_depth",
			Help: "Number of solve jobs currently queued.",
		}),
		ActiveSolves: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "temple_solver_active_solves",
			Help: "Number of solve jobs currently running.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "temple_solver_solve_duration_seconds",
			Help:    "Wall-clock duration of completed solves.",
			Buckets: prometheus.DefBuckets,
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temple_solver_rejections_total",
			Help: "Solve submissions rejected before running, by reason.",
		}, []string{"reason"}),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temple_solver_jobs_completed_total",
			Help: "Completed solve jobs, by terminal status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.QueueDepth, m.ActiveSolves, m.SolveDuration, m.Rejections, m.JobsCompleted)
	return m
}

// Handler returns the /metrics HTTP handler serving this Metrics
// instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
