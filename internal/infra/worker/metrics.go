package worker

import (
	"price-tracker/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the monitoring worker.
// It embeds the standard ConfigMetrics for configuration monitoring and
// adds worker-specific metrics for cron job execution tracking.
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total: Total cron job runs by status (success/failure)
//   - worker_cron_job_duration_seconds: Duration histogram of monitoring passes
//   - worker_cron_job_products_checked_total: Total products checked across runs
//   - worker_cron_job_alerts_triggered_total: Total price alerts triggered
//   - worker_cron_job_last_success_timestamp: Unix timestamp of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts cron job runs by status (success, failure).
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures the duration of a monitoring pass.
	// Buckets cover 1s to 30m, matching typical page fetch fan-out.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobProductsCheckedTotal counts products checked per pass.
	CronJobProductsCheckedTotal prometheus.Counter

	// CronJobAlertsTriggeredTotal counts alerts fired across all passes.
	CronJobAlertsTriggeredTotal prometheus.Counter

	// CronJobLastSuccessTimestamp records the last successful run.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance with all metrics
// initialized. Metrics are auto-registered via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of monitoring pass execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CronJobProductsCheckedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_products_checked_total",
			Help: "Total number of products checked across all monitoring passes",
		}),

		CronJobAlertsTriggeredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_alerts_triggered_total",
			Help: "Total number of price alerts triggered across all monitoring passes",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful monitoring pass",
		}),
	}
}

// MustRegister is a no-op kept for API symmetry: metrics are registered
// automatically via promauto when created in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordJobRun increments the job run counter for the given status
// ("success" or "failure").
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a monitoring pass in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordProductsChecked adds the number of products checked in this pass.
func (m *WorkerMetrics) RecordProductsChecked(count int) {
	m.CronJobProductsCheckedTotal.Add(float64(count))
}

// RecordAlertsTriggered adds the number of alerts fired in this pass.
func (m *WorkerMetrics) RecordAlertsTriggered(count int) {
	m.CronJobAlertsTriggeredTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful pass.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
