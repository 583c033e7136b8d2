package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, orderCacheRequestsTotal) }

var (
	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Read-through cache hits and misses, e.g. cache=fare_rule.",
		},
		[]string{"cache", "result"},
	)

	orderCacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_cache_requests_total",
			Help: "Staged order cache operations by result (stage ok/error, read hit/miss/error).",
		},
		[]string{"op", "result"},
	)
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncOrderCache(op, result string) {
	orderCacheRequestsTotal.WithLabelValues(norm(op), norm(result)).Inc()
}
