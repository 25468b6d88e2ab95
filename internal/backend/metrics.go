package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "greenscore",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend API calls by operation and outcome.",
	}, []string{"op", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "greenscore",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend API call latency by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

func observeRequest(op string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
