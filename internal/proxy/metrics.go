package proxy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidgen",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Forwarded requests by method and outcome (upstream status code or local error code).",
		},
		[]string{"method", "outcome"},
	)

	forwardLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vidgen",
			Subsystem: "proxy",
			Name:      "forward_latency_seconds",
			Help:      "Round-trip time to the upstream API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, forwardLatency)
}

func observe(method, outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, outcome).Inc()
	forwardLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}
