package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthdash",
			Name:      "store_mutations_total",
			Help:      "Store mutations by store and outcome.",
		},
		[]string{"store", "outcome"},
	)

	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthdash",
			Name:      "ai_requests_total",
			Help:      "Generative text requests by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healthdash",
			Name:      "ai_request_duration_seconds",
			Help:      "Generative text request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"flow"},
	)

	planFetchSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthdash",
			Name:      "plan_fetch_suppressed_total",
			Help:      "Plan fetches skipped because one was already in flight.",
		},
		[]string{"flow"},
	)

	realtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthdash",
		Name:      "realtime_clients",
		Help:      "Connected websocket clients.",
	})
)

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
