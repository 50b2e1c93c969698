package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	generatorCaption = "caption"
	generatorImage   = "image"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenes_ai_requests_total",
			Help: "Total number of generator requests by generator, model and status.",
		},
		[]string{"generator", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scenes_ai_request_duration_seconds",
			Help:    "Duration of successful generator requests.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"generator", "model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scenes_ai_caption_tokens",
			Help:    "Total tokens used per caption request.",
			Buckets: prometheus.LinearBuckets(50, 50, 10), // 50, 100, ..., 500
		},
		[]string{"model"},
	)
)

func observeFailure(generator, model, status string) {
	aiRequestsTotal.With(prometheus.Labels{"generator": generator, "model": model, "status": status}).Inc()
}

func observeSuccess(generator, model string, started time.Time) {
	aiRequestsTotal.With(prometheus.Labels{"generator": generator, "model": model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"generator": generator, "model": model}).Observe(time.Since(started).Seconds())
}
