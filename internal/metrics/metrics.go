package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - Track factory activity
var (
	TokensCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "factory_tokens_created_total",
		Help: "Total number of tokens created by the factory",
	})

	FeesCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "factory_fees_collected_stroops_total",
		Help: "Total creation fees collected, in stroops",
	})

	FeeUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "factory_fee_updates_total",
		Help: "Total number of successful fee schedule updates",
	})
)

// Performance metrics - Track invocation latency
var (
	CreateTokenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "factory_create_token_duration_seconds",
		Help:    "Time taken by a create_token invocation",
		Buckets: prometheus.DefBuckets,
	})
)

// State metrics - Track current factory state
var (
	RegistrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "factory_registry_size",
		Help: "Number of tokens in the factory registry",
	})
)

// Error metrics - Track failures by contract error kind
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factory_errors_total",
			Help: "Total number of failed invocations by error kind",
		},
		[]string{"kind"},
	)
)

// HTTP metrics - Track API traffic
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "factory_http_requests_total",
			Help: "Total HTTP requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)
)
