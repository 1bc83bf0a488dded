package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventdeck"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// HTTPRequestsTotal counts handled requests by method and status
var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests handled",
	},
	[]string{"method", "status"},
)

// AuthDenialsTotal counts requests rejected by the token guards
var AuthDenialsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Requests rejected by role-scoped token guards",
	},
	[]string{"role"},
)

// WeatherLookupsTotal counts enrichment attempts by outcome (ok, miss, error)
var WeatherLookupsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_lookups_total",
		Help:      "Weather enrichment attempts by outcome",
	},
	[]string{"outcome"},
)

// EventsMutationsTotal counts event lifecycle writes by operation
var EventsMutationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_mutations_total",
		Help:      "Event lifecycle mutations by operation",
	},
	[]string{"operation"},
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
