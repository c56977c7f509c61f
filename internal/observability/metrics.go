package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "driftr", Name: "waves_total", Help: "Waves submitted"},
		[]string{"mode"},
	)
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "driftr", Name: "matches_total", Help: "Matches surfaced to users"},
		[]string{"mode"},
	)
	WaveLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "driftr", Name: "wave_limit_rejections_total", Help: "Wave attempts denied by the daily limit"},
	)
	NearbyQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "driftr",
			Name:      "nearby_query_duration_seconds",
			Help:      "Proximity query latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
	)
	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "driftr", Name: "messages_total", Help: "Chat messages sent"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "driftr", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "driftr",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
