package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Source label values.
const (
	SourceSentiment = "sentiment"
	SourceRegions   = "regions"
)

// Load outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	SourceLoads        *prometheus.CounterVec   // labels: source={sentiment,regions}, outcome={success,fallback}
	RecordsLoaded      *prometheus.GaugeVec     // labels: source={sentiment,regions}
	LoadDuration       *prometheus.HistogramVec // labels: source={sentiment,regions}
	DegenerateRanges   prometheus.Counter
	SynthesizedRecords prometheus.Counter
	MapRenders         prometheus.Counter
	MapReady           prometheus.Gauge

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SourceLoads,
		m.RecordsLoaded,
		m.LoadDuration,
		m.DegenerateRanges,
		m.SynthesizedRecords,
		m.MapRenders,
		m.MapReady,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "source_loads_total",
			Help:      "Source loads by source and outcome.",
		}, []string{"source", "outcome"}),
		RecordsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sentiment_map",
			Name:      "records_loaded",
			Help:      "Records held after the most recent load, by source.",
		}, []string{"source"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentiment_map",
			Name:      "load_duration_seconds",
			Help:      "Duration of a fetch-parse-store cycle, by source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		DegenerateRanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "degenerate_ranges_total",
			Help:      "Loads whose raw scores were all equal.",
		}),
		SynthesizedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "synthesized_records_total",
			Help:      "Records synthesized for departments missing from the sentiment source.",
		}),
		MapRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "map_renders_total",
			Help:      "Completed render steps.",
		}),
		MapReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentiment_map",
			Name:      "map_ready",
			Help:      "1 once both sources have loaded and the map has rendered.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "snapshots_published_total",
			Help:      "Sentiment snapshots written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot writes.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentiment_map",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentiment_map",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentiment_map",
			Name:      "geocode_enabled",
			Help:      "1 when label geocoding is enabled, 0 otherwise.",
		}),
	}
}
