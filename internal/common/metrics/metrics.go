package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LifecycleRunDuration tracks how long one lifecycle reconciliation pass takes.
	LifecycleRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "giveaway_lifecycle_run_duration_seconds",
			Help:    "Duration of one giveaway lifecycle reconciliation pass in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	// GiveawaysClosed counts draw-and-close completions.
	GiveawaysClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "giveaways_closed_total",
			Help: "Number of giveaways closed and drawn",
		},
	)

	// LifecycleErrors counts per-giveaway processing failures.
	LifecycleErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "giveaway_lifecycle_errors_total",
			Help: "Number of per-giveaway lifecycle processing failures",
		},
	)

	// EntrySubmissions counts entry submissions by outcome.
	EntrySubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giveaway_entry_submissions_total",
			Help: "Number of giveaway entry submissions by outcome",
		},
		[]string{"outcome"}, // accepted, rejected, conflict, error
	)

	// AnalyticsEventsIngested counts telemetry events pushed to the stream.
	AnalyticsEventsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_ingested_total",
			Help: "Number of analytics events accepted for ingestion",
		},
	)
)
