// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts finished requests by route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teachteam",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "teachteam",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LookupResolutions counts display-name resolutions by entity kind and
	// the tier that answered (remote, persisted, default, miss).
	LookupResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teachteam",
		Subsystem: "lookup",
		Name:      "resolutions_total",
		Help:      "Display-name resolutions by kind and answering tier.",
	}, []string{"kind", "tier"})

	// LookupRefreshes counts remote refresh attempts by kind and result.
	LookupRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teachteam",
		Subsystem: "lookup",
		Name:      "refreshes_total",
		Help:      "Remote lookup refreshes by kind and result.",
	}, []string{"kind", "result"})

	// ReviewMutations counts reviewer edits by field and outcome
	// (committed, rejected).
	ReviewMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teachteam",
		Subsystem: "review",
		Name:      "mutations_total",
		Help:      "Reviewer edits by field and outcome.",
	}, []string{"field", "outcome"})

	// SnapshotSaveFailures counts snapshot writes that failed and were dropped.
	SnapshotSaveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teachteam",
		Subsystem: "store",
		Name:      "save_failures_total",
		Help:      "Snapshot writes that failed.",
	}, []string{"key"})
)
