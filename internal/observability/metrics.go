package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikesTotal counts like and unlike actions that committed.
	LikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tactac_likes_total",
		Help: "Total number of committed like actions by action",
	}, []string{"action"})

	// PostsTotal counts post lifecycle events.
	PostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tactac_posts_total",
		Help: "Total number of post lifecycle events by action",
	}, []string{"action"})

	// CommentsTotal counts comment lifecycle events.
	CommentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tactac_comments_total",
		Help: "Total number of comment lifecycle events by action",
	}, []string{"action"})

	// CascadeDeletions counts dependent rows removed by post and user cascades.
	CascadeDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tactac_cascade_deletions_total",
		Help: "Total number of dependent rows removed by cascades",
	}, []string{"kind"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tactac_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ImageProcessingSeconds records time spent decoding, resizing and encoding uploads.
	ImageProcessingSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tactac_image_processing_seconds",
		Help:    "Image processing latency in seconds by variant",
		Buckets: prometheus.DefBuckets,
	}, []string{"variant"})
)

// TrackImage returns a function that records processing latency for variant when called (e.g. defer).
func TrackImage(variant string) func() {
	start := time.Now()
	return func() {
		ImageProcessingSeconds.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	}
}

// RecordCascade adds n removed rows of kind to the cascade counter.
func RecordCascade(kind string, n int64) {
	if n > 0 {
		CascadeDeletions.WithLabelValues(kind).Add(float64(n))
	}
}
