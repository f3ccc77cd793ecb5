// Package metrics exposes prometheus collectors on a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pasadias"

// Registry holds every collector served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// CatalogLoads counts catalog loads by outcome (ok, http_status, parse, transport, file_scheme).
var CatalogLoads = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_loads_total",
		Help:      "Catalog document loads by outcome",
	},
	[]string{"outcome"},
)

// RejectedEntries counts catalog entries that failed validation.
var RejectedEntries = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_rejected_entries_total",
		Help:      "Catalog entries rejected by schema validation",
	},
)

// DialogOpens counts detail dialog openings.
var DialogOpens = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dialog_opens_total",
		Help:      "Detail dialog openings",
	},
)

// Pages tracks live page sessions.
var Pages = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pages",
		Help:      "Page sessions currently held in memory",
	},
)

// HTTPRequestsTotal counts HTTP requests by method, route and status.
var HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration records request latency in seconds.
var HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	},
	[]string{"method", "route"},
)
