// Package metrics provides Prometheus metrics for the perfscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the perfscore service.
type Manager struct {
	namespace         string
	subsystem         string
	histogramBuckets  []float64
	enabled           bool
	customLabels      map[string]string
	metricPrefix      string
	registry          prometheus.Registerer
	runtimeCollectors bool

	// Prediction Metrics - one submission ends in exactly one outcome
	submissions          *prometheus.CounterVec
	validationRejections *prometheus.CounterVec
	predictionLatency    prometheus.Histogram
	predictionErrors     *prometheus.CounterVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	modelInfo            *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry), WithRuntimeCollectors(true))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "perfscore",
		subsystem:        "predictor",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// name applies the optional metric prefix.
func (m *Manager) name(base string) string {
	if m.metricPrefix == "" {
		return base
	}
	return m.metricPrefix + "_" + base
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	if !m.enabled {
		// Metrics are still created so recorders never see nil, but nothing is exported.
		auto = promauto.With(nil)
	}
	labels := prometheus.Labels(m.customLabels)

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("submissions_total"),
		Help:        "Total number of form submissions by outcome (completed, rejected, failed)",
		ConstLabels: labels,
	}, []string{"outcome", "source"})

	m.validationRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("validation_rejections_total"),
		Help:        "Submissions rejected before prediction, by the first invalid field",
		ConstLabels: labels,
	}, []string{"field"})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("prediction_latency_milliseconds"),
		Help:        "Histogram of model invocation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.predictionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("prediction_errors_total"),
		Help:        "Model invocations that failed, by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cache_hits_total"),
		Help:        "Predictions answered from the memo",
		ConstLabels: labels,
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cache_misses_total"),
		Help:        "Predictions that invoked the model",
		ConstLabels: labels,
	})

	m.modelInfo = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_info"),
		Help:        "Loaded model artifact; value is 1 when it can predict and 0 otherwise",
		ConstLabels: labels,
	}, []string{"estimator"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds (user experience)",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rate_limited_total"),
		Help:        "Requests refused by the rate limiter",
		ConstLabels: labels,
	}, []string{"endpoint"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	if m.runtimeCollectors && m.enabled {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// RecordSubmission increments the submissions counter for an outcome.
func (m *Manager) RecordSubmission(outcome, source string) {
	m.submissions.WithLabelValues(outcome, source).Inc()
}

// RecordValidationRejection counts a rejection on field.
func (m *Manager) RecordValidationRejection(field string) {
	m.validationRejections.WithLabelValues(field).Inc()
}

// RecordPredictionLatency records model latency in milliseconds.
func (m *Manager) RecordPredictionLatency(latencyMs float64) {
	m.predictionLatency.Observe(latencyMs)
}

// RecordPredictionError counts a failed model invocation.
func (m *Manager) RecordPredictionError(kind string) {
	m.predictionErrors.WithLabelValues(kind).Inc()
}

// RecordCacheLookup counts a memo hit or miss.
func (m *Manager) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// SetModelInfo publishes the loaded estimator.
func (m *Manager) SetModelInfo(estimator string, canPredict bool) {
	m.modelInfo.Reset()
	v := 0.0
	if canPredict {
		v = 1
	}
	m.modelInfo.WithLabelValues(estimator).Set(v)
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a refused request.
func (m *Manager) RecordRateLimited(endpoint string) {
	m.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordError records an error with type, severity and endpoint labels.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level recorders on the global manager.

// RecordSubmission increments the submissions counter for an outcome.
func RecordSubmission(outcome, source string) { globalManager.RecordSubmission(outcome, source) }

// RecordValidationRejection counts a rejection on field.
func RecordValidationRejection(field string) { globalManager.RecordValidationRejection(field) }

// RecordPredictionLatency records model latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) { globalManager.RecordPredictionLatency(latencyMs) }

// RecordPredictionError counts a failed model invocation.
func RecordPredictionError(kind string) { globalManager.RecordPredictionError(kind) }

// RecordCacheLookup counts a memo hit or miss.
func RecordCacheLookup(hit bool) { globalManager.RecordCacheLookup(hit) }

// SetModelInfo publishes the loaded estimator.
func SetModelInfo(estimator string, canPredict bool) {
	globalManager.SetModelInfo(estimator, canPredict)
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited counts a refused request.
func RecordRateLimited(endpoint string) { globalManager.RecordRateLimited(endpoint) }

// RecordError records an error with type, severity and endpoint labels.
func RecordError(endpoint, method, errorType, severity string) {
	globalManager.RecordError(endpoint, method, errorType, severity)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
