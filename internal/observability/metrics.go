package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk engine.
type Metrics struct {
	AnalysesTotal   prometheus.Counter
	AnalysisErrors  prometheus.Counter
	AnalyzeDuration prometheus.Histogram

	// Snapshot and curve diagnostics.
	SnapshotNodes prometheus.Histogram
	MissingCurves prometheus.Counter

	// DefaultedParams counts fragility evaluations that substituted model
	// defaults for missing or invalid parameters. Labels: model.
	DefaultedParams *prometheus.CounterVec

	SummariesPublished prometheus.Counter
	CacheLookups       *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "analyses_total",
			Help:      "Total completed risk analyses.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "analysis_errors_total",
			Help:      "Total failed risk analyses.",
		}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_engine",
			Name:      "analyze_duration_seconds",
			Help:      "Duration of a complete tree analysis.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		SnapshotNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_engine",
			Name:      "snapshot_nodes",
			Help:      "Number of component records per risk snapshot.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		MissingCurves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "missing_curves_total",
			Help:      "Total snapshot records emitted without usable curve data.",
		}),
		DefaultedParams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "defaulted_params_total",
			Help:      "Fragility parameter sets completed with model defaults, by model.",
		}, []string{"model"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "summaries_published_total",
			Help:      "Risk summaries published to the sink topic.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "cache_lookups_total",
			Help:      "Analysis cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.AnalyzeDuration,
		m.SnapshotNodes,
		m.MissingCurves,
		m.DefaultedParams,
		m.SummariesPublished,
		m.CacheLookups,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AnalysesTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "risk_engine", Name: "analyses_total"}),
		AnalysisErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "risk_engine", Name: "analysis_errors_total"}),
		AnalyzeDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "risk_engine", Name: "analyze_duration_seconds"}),
		SnapshotNodes:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "risk_engine", Name: "snapshot_nodes"}),
		MissingCurves:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "risk_engine", Name: "missing_curves_total"}),
		DefaultedParams:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "risk_engine", Name: "defaulted_params_total"}, []string{"model"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "risk_engine", Name: "summaries_published_total"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "risk_engine", Name: "cache_lookups_total"}, []string{"result"}),
	}
}
