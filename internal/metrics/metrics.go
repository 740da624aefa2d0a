package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AddressesResolved *prometheus.CounterVec
	CacheHits         prometheus.Counter
	ProviderErrors    *prometheus.CounterVec
	RequestSeconds    *prometheus.HistogramVec
	Unresolved        prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AddressesResolved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "transitlink_addresses_resolved_total",
			Help: "Total number of addresses resolved, by source of the result.",
		}, []string{"source"}),
		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "transitlink_cache_hits_total",
			Help: "Total number of lookups answered from the coordinate cache.",
		}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "transitlink_provider_errors_total",
			Help: "Total number of errors received from geocoding provider APIs.",
		}, []string{"provider"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transitlink_provider_request_duration_seconds",
			Help:    "Duration of requests to geocoding provider APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		Unresolved: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "transitlink_addresses_unresolved_total",
			Help: "Total number of addresses that no provider could resolve.",
		}),
	}
}
