package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	jobsTotal    *prometheus.CounterVec
	jobsFinished *prometheus.CounterVec
	jobsRejected *prometheus.CounterVec
	stageSeconds *prometheus.HistogramVec
	aiAttempts   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	inFlight     prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_jobs_submitted_total",
			Help: "Extraction jobs accepted, by domain.",
		}, []string{"domain"}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_jobs_finished_total",
			Help: "Extraction jobs reaching a terminal state, by domain, status and enhancement.",
		}, []string{"domain", "status", "enhanced"}),
		jobsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_jobs_rejected_total",
			Help: "Submissions refused because the queue was full, by domain.",
		}, []string{"domain"}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "extractor_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"stage"}),
		aiAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_ai_attempts_total",
			Help: "AI gateway attempts, by outcome.",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_field_rejections_total",
			Help: "AI field values dropped by validation, by domain.",
		}, []string{"domain"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "extractor_jobs_in_flight",
			Help: "Jobs currently held by a worker.",
		}),
	}
	m.registry.MustRegister(
		m.jobsTotal, m.jobsFinished, m.jobsRejected, m.stageSeconds, m.aiAttempts, m.rejections, m.inFlight,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) JobSubmitted(domain string) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(domain).Inc()
}

func (m *Metrics) JobFinished(domain, status string, enhanced bool) {
	if m == nil {
		return
	}
	e := "false"
	if enhanced {
		e = "true"
	}
	m.jobsFinished.WithLabelValues(domain, status, e).Inc()
}

// JobRejected counts a submission turned away before a job was created.
func (m *Metrics) JobRejected(domain string) {
	if m == nil {
		return
	}
	m.jobsRejected.WithLabelValues(domain).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// AIAttempt matches the llm.Gateway attempt hook.
func (m *Metrics) AIAttempt(outcome string) {
	if m == nil {
		return
	}
	m.aiAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Rejections(domain string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rejections.WithLabelValues(domain).Add(float64(n))
}

// WorkerBusy adjusts the in-flight gauge by delta.
func (m *Metrics) WorkerBusy(delta int) {
	if m == nil {
		return
	}
	m.inFlight.Add(float64(delta))
}
