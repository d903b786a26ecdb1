// Package metrics provides Prometheus metrics for pitch-control analyses.
package metrics

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for an analysis run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Surface evaluation
	surfaceEvaluations *prometheus.CounterVec
	surfaceLatency     *prometheus.HistogramVec
	gridCells          prometheus.Gauge
	modelChecksum      prometheus.Gauge

	// Scenarios and metrics
	scenariosBuilt *prometheus.CounterVec
	spaceMetric    *prometheus.GaugeVec
	searchTrials   prometheus.Counter

	// Data loading
	datasetFrames *prometheus.GaugeVec
	datasetEvents *prometheus.GaugeVec
	loadLatency   *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchspace",
		subsystem:        "analysis",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// SetEnabled turns recording on the global manager on or off. Metrics
// already recorded are kept.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

func (m *Manager) name(n string) string {
	if m.metricPrefix != "" {
		return m.metricPrefix + "_" + n
	}
	return n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.surfaceEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("surface_evaluations_total"),
		Help:        "Total number of control surfaces evaluated, by model",
		ConstLabels: m.customLabels,
	}, []string{"model"})

	m.surfaceLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("surface_latency_milliseconds"),
		Help:        "Control surface evaluation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"model"})

	m.gridCells = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("grid_cells"),
		Help:        "Number of cells in the most recently evaluated grid",
		ConstLabels: m.customLabels,
	})

	m.modelChecksum = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_checksum_gap"),
		Help:        "1 minus the mean of both teams' control probability on the last surface",
		ConstLabels: m.customLabels,
	})

	m.scenariosBuilt = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("scenarios_built_total"),
		Help:        "Total number of hypothetical snapshots built, by change kind",
		ConstLabels: m.customLabels,
	}, []string{"kind"})

	m.spaceMetric = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("space_metric"),
		Help:        "Last computed space metric, by metric name",
		ConstLabels: m.customLabels,
	}, []string{"metric"})

	m.searchTrials = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("search_trials_total"),
		Help:        "Total number of candidate scenarios evaluated by the location search",
		ConstLabels: m.customLabels,
	})

	m.datasetFrames = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_frames"),
		Help:        "Tracking frames in the loaded dataset, by source",
		ConstLabels: m.customLabels,
	}, []string{"source"})

	m.datasetEvents = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_events"),
		Help:        "Events in the loaded dataset, by source",
		ConstLabels: m.customLabels,
	}, []string{"source"})

	m.loadLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_milliseconds"),
		Help:        "Dataset load latency in milliseconds, by source",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"source"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Total number of errors by component",
		ConstLabels: m.customLabels,
	}, []string{"component", "error_type"})
}

// RecordSurfaceEvaluation counts one evaluation and observes its latency.
func RecordSurfaceEvaluation(model string, latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.surfaceEvaluations.WithLabelValues(model).Inc()
	globalManager.surfaceLatency.WithLabelValues(model).Observe(latencyMs)
}

// UpdateGridCells sets the grid size gauge.
func UpdateGridCells(cells int) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.gridCells.Set(float64(cells))
}

// UpdateModelChecksum records how far the last surface was from summing to one.
func UpdateModelChecksum(gap float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.modelChecksum.Set(gap)
}

// RecordScenario counts a hypothetical snapshot of the given change kind.
func RecordScenario(kind string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.scenariosBuilt.WithLabelValues(kind).Inc()
}

// UpdateSpaceMetric records the last value of a named space metric.
func UpdateSpaceMetric(name string, value float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.spaceMetric.WithLabelValues(name).Set(value)
}

// RecordSearchTrial counts one location search candidate.
func RecordSearchTrial() {
	if !globalManager.Enabled() {
		return
	}
	globalManager.searchTrials.Inc()
}

// RecordDatasetLoad records the size of a loaded dataset and how long it took.
func RecordDatasetLoad(source string, frames, events int, latencyMs float64) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.datasetFrames.WithLabelValues(source).Set(float64(frames))
	globalManager.datasetEvents.WithLabelValues(source).Set(float64(events))
	globalManager.loadLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.Enabled() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes every metric on the custom registry to path in the
// text exposition format, for a node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
