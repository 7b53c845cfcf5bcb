// Package metrics holds the Prometheus collectors for the search service.
// Collectors register on the default registry and are served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "unified_search"

var (
	// Labels: method, route, status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	}, []string{"method", "route"})

	// Labels: source, outcome (ok, empty, unavailable)
	sourceFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "fetch_total",
		Help:      "Source adapter fetches by outcome",
	}, []string{"source", "outcome"})

	sourceFetchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "fetch_duration_seconds",
		Help:      "Source adapter latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"source"})

	// Labels: provider, outcome (answered, skipped, failed)
	answerAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "answer",
		Name:      "attempts_total",
		Help:      "AI answer provider attempts by outcome",
	}, []string{"provider", "outcome"})

	// Labels: outcome (accepted, failed, dropped)
	graftItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graft",
		Name:      "items_total",
		Help:      "Observations handed to the ingestion endpoint",
	}, []string{"outcome"})

	// Labels: result (hit, miss, error)
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups",
	}, []string{"result"})

	// Labels: source (live, fallback)
	trendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "trends",
		Name:      "requests_total",
		Help:      "Trend requests by data source",
	}, []string{"source"})
)

// RecordHTTP records one served request
func RecordHTTP(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordSourceFetch records one adapter fetch
func RecordSourceFetch(source string, items int, unavailable bool, d time.Duration) {
	outcome := "ok"
	switch {
	case unavailable:
		outcome = "unavailable"
	case items == 0:
		outcome = "empty"
	}
	sourceFetchTotal.WithLabelValues(source, outcome).Inc()
	sourceFetchSeconds.WithLabelValues(source).Observe(d.Seconds())
}

// RecordAnswerAttempt records one resolver step
func RecordAnswerAttempt(provider, outcome string) {
	answerAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordGraft records n items with the given outcome
func RecordGraft(outcome string, n int) {
	graftItemsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordCacheLookup records a response cache lookup
func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordTrends records a trends request
func RecordTrends(source string) {
	trendRequestsTotal.WithLabelValues(source).Inc()
}
