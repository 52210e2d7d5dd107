// Package metrics holds the Prometheus collectors exported by the API and
// the cron worker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shop"

// Job run results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// JobMetrics tracks background job runs.
type JobMetrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rows        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
}

func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return nil
	}
	labels := []string{"job"}
	m := &JobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "runs_total",
			Help:      "Job runs by result.",
		}, []string{"job", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Wall time of one job run.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		}, labels),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "rows_affected_total",
			Help:      "Rows changed by successful job runs.",
		}, labels),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the latest successful run.",
		}, labels),
	}
	reg.MustRegister(m.runs, m.duration, m.rows, m.lastSuccess)
	return m
}

// Record stores the outcome of one run. A nil receiver records nothing.
func (m *JobMetrics) Record(job string, elapsed time.Duration, affected int64, err error) {
	if m == nil {
		return
	}
	if job == "" {
		job = "unknown"
	}
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		m.runs.WithLabelValues(job, ResultFailure).Inc()
		return
	}
	m.runs.WithLabelValues(job, ResultSuccess).Inc()
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
	if affected > 0 {
		m.rows.WithLabelValues(job).Add(float64(affected))
	}
}
