// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	HealthScoreValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "health_score_value",
			Help:    "Distribution of computed financial health scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	HealthScoreRating = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_score_rating_total",
			Help: "Computed health scores by rating",
		},
		[]string{"rating"},
	)

	ProtectionScoreValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "protection_score_value",
			Help:    "Distribution of computed protection scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	ProtectionCategoryStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protection_category_status_total",
			Help: "Protection category evaluations by status",
		},
		[]string{"category", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_lookups_total",
			Help: "Read-through cache lookups by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_notifications_sent_total",
			Help: "Score summary notifications by channel",
		},
		[]string{"channel"},
	)
)

func JobCompleted(taskType string) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

func JobFailed(taskType, errorCode string) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

// TrackJob marks a job active and returns the func that records its duration.
func TrackJob(taskType string) func() {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func() {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}

func ObserveHealthScore(score int, rating string) {
	HealthScoreValue.Observe(float64(score))
	HealthScoreRating.WithLabelValues(rating).Inc()
}

func ObserveProtectionScore(score int) {
	ProtectionScoreValue.Observe(float64(score))
}

func ObserveCategoryStatus(category, status string) {
	ProtectionCategoryStatus.WithLabelValues(category, status).Inc()
}

func CacheHit(entity string)  { CacheLookups.WithLabelValues(entity, "hit").Inc() }
func CacheMiss(entity string) { CacheLookups.WithLabelValues(entity, "miss").Inc() }

func NotificationSent(channel string) {
	NotificationsSent.WithLabelValues(channel).Inc()
}

