package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters and histograms partitioned by chain name.

var (
	// Loader
	LoadsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holdersnap",
		Subsystem: "loader",
		Name:      "loads_started_total",
		Help:      "Total holder loads started",
	}, []string{"chain"})

	LoadsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holdersnap",
		Subsystem: "loader",
		Name:      "loads_completed_total",
		Help:      "Total holder loads committed, by outcome",
	}, []string{"chain", "outcome"})

	LoadsSuperseded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holdersnap",
		Subsystem: "loader",
		Name:      "loads_superseded_total",
		Help:      "Total load results dropped because a newer query replaced them",
	}, []string{"chain"})

	LoadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "holdersnap",
		Subsystem: "loader",
		Name:      "load_duration_seconds",
		Help:      "Time from query change to committed state",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"chain"})

	HoldersReturned = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "holdersnap",
		Subsystem: "loader",
		Name:      "holders",
		Help:      "Holder count of the last committed load",
	}, []string{"chain"})

	// Sequence services
	ServiceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holdersnap",
		Subsystem: "sequence",
		Name:      "requests_total",
		Help:      "Total requests sent to Sequence services, by method and result",
	}, []string{"method", "result"})

	ServiceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "holdersnap",
		Subsystem: "sequence",
		Name:      "request_duration_seconds",
		Help:      "Sequence service request duration",
		Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method"})

	// Server
	SnapshotDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holdersnap",
		Subsystem: "server",
		Name:      "csv_downloads_total",
		Help:      "Total CSV downloads served, by source",
	}, []string{"source"})
)
