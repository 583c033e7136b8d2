package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(prorationAnomaliesTotal) }

var prorationAnomaliesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "proration_anomalies_total",
		Help: "Proration computations that fell back to zero credit, by kind (window_missing|zero|negative).",
	},
	[]string{"kind"},
)

func IncProrationAnomaly(kind string) {
	prorationAnomaliesTotal.WithLabelValues(norm(kind)).Inc()
}
