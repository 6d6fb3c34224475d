// Package metrics provides Prometheus metrics for the Edelweiss service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchResultsTotal tracks resolved records by entity kind and match tier
	MatchResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "matching",
			Name:      "results_total",
			Help:      "Total number of resolved records by kind and tier",
		},
		[]string{"kind", "tier"},
	)

	// AmbiguousResultsTotal tracks records that resolved to more than one reference id
	AmbiguousResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "matching",
			Name:      "ambiguous_total",
			Help:      "Total number of records resolved to several reference ids",
		},
		[]string{"kind"},
	)

	// CoveragePercent tracks the coverage of each resolution
	CoveragePercent = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edelweiss",
			Subsystem: "coverage",
			Name:      "percent",
			Help:      "Share of scoped reference entities matched by a resolution",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"kind"},
	)

	// CoverageBelowThresholdTotal tracks resolutions that missed the coverage gate
	CoverageBelowThresholdTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "coverage",
			Name:      "below_threshold_total",
			Help:      "Total number of resolutions below the minimum coverage",
		},
		[]string{"kind"},
	)

	// ResolutionDuration tracks resolution duration in seconds
	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "edelweiss",
			Subsystem: "resolver",
			Name:      "duration_seconds",
			Help:      "Duration of resolutions in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// ResolutionsTotal tracks resolutions by source and outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Total number of resolutions by outcome",
		},
		[]string{"status"},
	)

	// ReferenceRowsDroppedTotal tracks malformed reference rows dropped at load
	ReferenceRowsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "catalog",
			Name:      "rows_dropped_total",
			Help:      "Total number of malformed reference rows dropped at load",
		},
		[]string{"kind"},
	)

	// EmptyCatalogsTotal tracks scoped catalogs with no entities
	EmptyCatalogsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "catalog",
			Name:      "empty_scopes_total",
			Help:      "Total number of scoped catalog loads that found no entities",
		},
		[]string{"kind"},
	)

	// CacheLookupsTotal tracks resolution cache lookups
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of resolution cache lookups by result",
		},
		[]string{"result"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// KafkaMessagesConsumed tracks Kafka messages consumed
	KafkaMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edelweiss",
			Subsystem: "kafka",
			Name:      "messages_consumed_total",
			Help:      "Total number of messages consumed from Kafka",
		},
		[]string{"topic", "status"},
	)

	// HTTPRequestDuration tracks API request latency by route template
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edelweiss",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// DatabaseQueryDuration tracks database query duration
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edelweiss",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordMatch records one resolved record
func RecordMatch(kind, tier string, ambiguous bool) {
	MatchResultsTotal.WithLabelValues(kind, tier).Inc()
	if ambiguous {
		AmbiguousResultsTotal.WithLabelValues(kind).Inc()
	}
}

// RecordCoverage records the coverage of one entity kind of a resolution
func RecordCoverage(kind string, percent float64, meetsThreshold bool) {
	CoveragePercent.WithLabelValues(kind).Observe(percent)
	if !meetsThreshold {
		CoverageBelowThresholdTotal.WithLabelValues(kind).Inc()
	}
}

// RecordResolution records a resolution outcome
func RecordResolution(status string, durationSeconds float64) {
	ResolutionsTotal.WithLabelValues(status).Inc()
	ResolutionDuration.Observe(durationSeconds)
}

// RecordCatalogLoad records dropped rows and empty scopes of a catalog load
func RecordCatalogLoad(kind string, dropped int, empty bool) {
	if dropped > 0 {
		ReferenceRowsDroppedTotal.WithLabelValues(kind).Add(float64(dropped))
	}
	if empty {
		EmptyCatalogsTotal.WithLabelValues(kind).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}

// RecordKafkaConsume records a consumed Kafka message
func RecordKafkaConsume(topic, status string) {
	KafkaMessagesConsumed.WithLabelValues(topic, status).Inc()
}

// RecordHTTPRequest records one served API request
func RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(durationSeconds)
}
