// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package metrics holds the Prometheus collectors for feed generation,
// document store access, refresh scheduling and the ops HTTP server. All
// collectors register with the default registry and are served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeViewerNotFound = "viewer_not_found"
	OutcomePersistFailed  = "persist_failed"
	OutcomeError          = "error"
)

var (
	// Feed generation
	FeedGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_generation_duration_seconds",
			Help:    "Duration of one feed generation pass in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	FeedGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_generations_total",
			Help: "Total number of feed generation passes by outcome",
		},
		[]string{"outcome"},
	)

	FeedRetrievalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_retrieval_failures_total",
			Help: "Candidate retrieval strategy failures recovered with an empty contribution",
		},
		[]string{"strategy"}, // "following", "sports", "recent", "games"
	)

	FeedCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_candidates",
			Help:    "Number of candidates retrieved per pass",
			Buckets: []float64{0, 10, 20, 40, 80, 150, 300, 600},
		},
		[]string{"kind"}, // "post", "game"
	)

	FeedItemsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_dropped_total",
			Help: "Candidates removed from a pass by reason",
		},
		[]string{"reason"},
	)

	FeedBucketSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_bucket_size",
			Help:    "Length of each output list per pass",
			Buckets: []float64{0, 5, 10, 20, 40, 60, 80, 100},
		},
		[]string{"bucket"}, // "highlights", "images", "thoughts", "games"
	)

	FeedAuthorLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_author_lookups_total",
			Help: "Author directory lookups by result",
		},
		[]string{"result"}, // "hit", "fetched", "miss"
	)

	// Document store
	StoreBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of document store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	// Refresh
	FeedRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_refresh_total",
			Help: "Feed regenerations requested outside the request path",
		},
		[]string{"trigger", "outcome"}, // trigger: "schedule", "event"
	)

	FeedRefreshRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_refresh_run_duration_seconds",
			Help:    "Duration of one scheduled refresh run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// Ops HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Ops HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Ops HTTP requests currently being served",
		},
	)
)

// RecordGeneration records the duration and outcome of one generation pass.
func RecordGeneration(outcome string, duration time.Duration) {
	FeedGenerationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	FeedGenerationsTotal.WithLabelValues(outcome).Inc()
}

// RecordRetrievalFailure counts one recovered retrieval strategy failure.
func RecordRetrievalFailure(strategy string) {
	FeedRetrievalFailures.WithLabelValues(strategy).Inc()
}

// RecordCandidates records how many candidates of kind a pass started with.
func RecordCandidates(kind string, n int) {
	FeedCandidates.WithLabelValues(kind).Observe(float64(n))
}

// RecordDropped adds n to the drop counter for reason. Zero is ignored.
func RecordDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	FeedItemsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordBucketSize records the final length of one output list.
func RecordBucketSize(bucket string, n int) {
	FeedBucketSize.WithLabelValues(bucket).Observe(float64(n))
}

// RecordAuthorLookup counts one author directory lookup.
func RecordAuthorLookup(result string) {
	FeedAuthorLookups.WithLabelValues(result).Inc()
}

// RecordStoreQuery records the duration of one document store call.
func RecordStoreQuery(operation, collection string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

// SetBreakerState publishes a breaker state as 0 (closed), 1 (half-open) or 2 (open).
func SetBreakerState(name string, state int) {
	StoreBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordHTTPRequest records one served ops request. route is the matched
// pattern, not the raw path.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordRefresh counts one regeneration triggered by the scheduler or an event.
func RecordRefresh(trigger, outcome string) {
	FeedRefreshTotal.WithLabelValues(trigger, outcome).Inc()
}
