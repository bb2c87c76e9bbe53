// Package metrics provides Prometheus metrics for the booking cancellation predictor.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the predictor.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Prediction outcomes
	predictions *prometheus.CounterVec
	probability prometheus.Histogram

	// Pipeline stages
	stageLatency *prometheus.HistogramVec
	stageErrors  *prometheus.CounterVec

	// Artifacts
	artifactLoadLatency *prometheus.HistogramVec
	artifactLoadErrors  *prometheus.CounterVec
	artifactsLoaded     prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bookingrisk",
		subsystem:        "predictor",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.predictions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "predictions_total",
			Help:        "Total number of completed predictions by label",
			ConstLabels: labels,
		},
		[]string{"label"},
	)

	m.probability = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cancellation_probability",
		Help:        "Distribution of predicted cancellation probabilities",
		Buckets:     prometheus.LinearBuckets(0.1, 0.1, 9),
		ConstLabels: labels,
	})

	m.stageLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "stage_latency_milliseconds",
			Help:        "Latency of each pipeline stage in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"stage"},
	)

	m.stageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "stage_errors_total",
			Help:        "Total number of pipeline failures by stage and error kind",
			ConstLabels: labels,
		},
		[]string{"stage", "kind"},
	)

	m.artifactLoadLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "artifact_load_latency_milliseconds",
			Help:        "Time spent reading and decoding an artifact in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"artifact"},
	)

	m.artifactLoadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "artifact_load_errors_total",
			Help:        "Total number of artifact load failures",
			ConstLabels: labels,
		},
		[]string{"artifact"},
	)

	m.artifactsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifacts_loaded",
		Help:        "Number of artifacts currently loaded",
		ConstLabels: labels,
	})
}

// RecordPrediction counts a completed prediction and observes its probability.
func RecordPrediction(label string, probability float64) {
	globalManager.predictions.WithLabelValues(label).Inc()
	globalManager.probability.Observe(probability)
}

// RecordStageLatency records how long a pipeline stage took.
func RecordStageLatency(stage string, d time.Duration) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(milliseconds(d))
}

// RecordStageError counts a pipeline failure.
func RecordStageError(stage, kind string) {
	globalManager.stageErrors.WithLabelValues(stage, kind).Inc()
}

// RecordArtifactLoad records the load of one artifact. A non-nil err counts a failure.
func RecordArtifactLoad(artifact string, d time.Duration, err error) {
	globalManager.artifactLoadLatency.WithLabelValues(artifact).Observe(milliseconds(d))
	if err != nil {
		globalManager.artifactLoadErrors.WithLabelValues(artifact).Inc()
	}
}

// UpdateArtifactsLoaded sets the number of loaded artifacts.
func UpdateArtifactsLoaded(count int) {
	globalManager.artifactsLoaded.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the text exposition format to
// path, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
