package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "map_painting",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "map_painting",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// モデル呼び出し1回につき1サンプル
	GenerationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "map_painting",
			Subsystem: "generation",
			Name:      "attempts_total",
			Help:      "Painting model calls by outcome",
		},
		[]string{"outcome"},
	)

	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "map_painting",
			Subsystem: "generation",
			Name:      "total",
			Help:      "Painting generations by final status",
		},
		[]string{"status"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "map_painting",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "End to end painting generation duration, retries included",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "map_painting",
			Subsystem: "capture",
			Name:      "total",
			Help:      "View captures by provider and status",
		},
		[]string{"provider", "status"},
	)
)

func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
