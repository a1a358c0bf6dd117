package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores HTTP expuestos en /metrics. Se registran en el registry
// default de prometheus via promauto.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trazabilidad_http_requests_total",
			Help: "Total de requests HTTP por método, ruta y status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trazabilidad_http_request_duration_seconds",
			Help:    "Duración de requests HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trazabilidad_import_rows_total",
			Help: "Filas procesadas por el importador, por entidad y resultado.",
		},
		[]string{"entity", "result"},
	)
)
