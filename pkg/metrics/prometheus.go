// Package metrics provides Prometheus metrics for the evergreen scene engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Detection outcomes used as label values.
const (
	DetectionHands   = "hands"
	DetectionNone    = "none"
	DetectionSkipped = "skipped"
	DetectionError   = "error"
)

// frameBuckets are tuned for sub-millisecond frame steps (milliseconds).
var frameBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 33} //nolint:gochecknoglobals // static bucket layout

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Frame loop
	framesStepped    prometheus.Counter
	frameStepLatency prometheus.Histogram
	frameDelta       prometheus.Histogram
	currentMode      prometheus.Gauge
	modeTransitions  *prometheus.CounterVec

	// Gesture
	detections      *prometheus.CounterVec
	gestureDetected prometheus.Gauge
	gestureOpen     prometheus.Gauge
	detectorReady   prometheus.Gauge

	// Detection mailbox
	mailboxSize     prometheus.Gauge
	mailboxCapacity prometheus.Gauge
	mailboxDrops    *prometheus.CounterVec

	// Layout
	layoutGenerations  prometheus.Counter
	layoutElements     *prometheus.GaugeVec
	photoFallbacks     prometheus.Counter
	layoutGenerateTime prometheus.Histogram

	// Scene snapshots
	snapshotsPublished     prometheus.Counter
	snapshotPublishLatency prometheus.Histogram
	snapshotLastUnix       prometheus.Gauge

	// Assets
	assetLoads       *prometheus.CounterVec
	assetLoadLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "evergreen",
		subsystem:        "scene",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.framesStepped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("frames_stepped_total"),
		Help: "Total number of simulation frames stepped",
	})
	m.frameStepLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("frame_step_milliseconds"),
		Help:    "Wall time spent computing one frame step in milliseconds",
		Buckets: frameBuckets,
	})
	m.frameDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("frame_delta_milliseconds"),
		Help:    "Simulated time step applied per frame in milliseconds",
		Buckets: frameBuckets,
	})
	m.currentMode = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("mode"),
		Help: "Current global layout mode (0 assembled, 1 unleashed)",
	})
	m.modeTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("mode_transitions_total"),
		Help: "Number of global mode flips by destination mode",
	}, []string{"to"})

	m.detections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("detections_total"),
		Help: "Detection attempts by outcome (hands, none, skipped, error)",
	}, []string{"outcome"})
	m.gestureDetected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("gesture_detected"),
		Help: "Whether a hand is currently detected (1) or not (0)",
	})
	m.gestureOpen = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("gesture_open"),
		Help: "Whether the detected hand is open (1) or closed (0)",
	})
	m.detectorReady = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("detector_ready"),
		Help: "Whether the hand detector initialized successfully",
	})

	m.mailboxSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("detection_mailbox_size"),
		Help: "Detections waiting for the frame loop",
	})
	m.mailboxCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("detection_mailbox_capacity"),
		Help: "Capacity of the detection mailbox",
	})
	m.mailboxDrops = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("detection_mailbox_drops_total"),
		Help: "Detections rejected by the mailbox by reason",
	}, []string{"reason"})

	m.layoutGenerations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("layout_generations_total"),
		Help: "Number of element layouts generated",
	})
	m.layoutElements = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("layout_elements"),
		Help: "Elements in the current layout by kind",
	}, []string{"kind"})
	m.photoFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("photo_placement_fallbacks_total"),
		Help: "Photo unleashed placements that exhausted rejection sampling",
	})
	m.layoutGenerateTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("layout_generate_milliseconds"),
		Help:    "Time to generate a full layout in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.assetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("asset_loads_total"),
		Help: "Photo resource loads by result (ok, placeholder)",
	}, []string{"result"})
	m.assetLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("asset_load_milliseconds"),
		Help:    "Photo resource load latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: labels,
		Name: m.name("requests_total"),
		Help: "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: labels,
		Name:    m.name("request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.snapshotsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "snapshot", ConstLabels: labels,
		Name: m.name("published_total"),
		Help: "Scene snapshots published",
	})
	m.snapshotPublishLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "snapshot", ConstLabels: labels,
		Name:    m.name("publish_milliseconds"),
		Help:    "Time to copy a frame into a snapshot",
		Buckets: frameBuckets,
	})
	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "snapshot", ConstLabels: labels,
		Name: m.name("last_unixtime"),
		Help: "Unix time of the last published snapshot",
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors", ConstLabels: labels,
		Name: m.name("by_component_total"),
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors", ConstLabels: labels,
		Name: m.name("by_endpoint_total"),
		Help: "Errors by HTTP endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: m.name("memory_usage_bytes"),
		Help: "Current memory usage in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: m.name("goroutines"),
		Help: "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name:    m.name("gc_pause_milliseconds"),
		Help:    "Average GC pause time in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Frame loop functions.

// RecordFrameStepped increments the stepped frame counter.
func RecordFrameStepped() {
	if globalManager.enabled {
		globalManager.framesStepped.Inc()
	}
}

// RecordFrameStepLatency records frame computation time in milliseconds.
func RecordFrameStepLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.frameStepLatency.Observe(latencyMs)
	}
}

// RecordFrameDelta records the simulated time step in milliseconds.
func RecordFrameDelta(deltaMs float64) {
	if globalManager.enabled {
		globalManager.frameDelta.Observe(deltaMs)
	}
}

// UpdateMode sets the current mode gauge and counts the transition.
func UpdateMode(mode int, name string, changed bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.currentMode.Set(float64(mode))
	if changed {
		globalManager.modeTransitions.WithLabelValues(name).Inc()
	}
}

// Gesture functions.

// RecordDetection counts one detection attempt by outcome.
func RecordDetection(outcome string) {
	if globalManager.enabled {
		globalManager.detections.WithLabelValues(outcome).Inc()
	}
}

// UpdateGesture sets the detected/open gauges.
func UpdateGesture(detected, open bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.gestureDetected.Set(boolGauge(detected))
	globalManager.gestureOpen.Set(boolGauge(detected && open))
}

// UpdateDetectorReady records whether the detector initialized.
func UpdateDetectorReady(ready bool) {
	if globalManager.enabled {
		globalManager.detectorReady.Set(boolGauge(ready))
	}
}

// Mailbox functions.

// UpdateMailboxSize sets the number of pending detections.
func UpdateMailboxSize(size int) {
	if globalManager.enabled {
		globalManager.mailboxSize.Set(float64(size))
	}
}

// UpdateMailboxCapacity sets the mailbox capacity.
func UpdateMailboxCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.mailboxCapacity.Set(float64(capacity))
	}
}

// RecordMailboxDrop counts a rejected detection.
func RecordMailboxDrop(reason string) {
	if globalManager.enabled {
		globalManager.mailboxDrops.WithLabelValues(reason).Inc()
	}
}

// Layout functions.

// RecordLayoutGenerated records a completed layout generation.
func RecordLayoutGenerated(latencyMs float64, byKind map[string]int, fallbacks int) {
	if !globalManager.enabled {
		return
	}
	globalManager.layoutGenerations.Inc()
	globalManager.layoutGenerateTime.Observe(latencyMs)
	for kind, n := range byKind {
		globalManager.layoutElements.WithLabelValues(kind).Set(float64(n))
	}
	globalManager.photoFallbacks.Add(float64(fallbacks))
}

// Snapshot functions.

// RecordSnapshotPublished records a published scene snapshot.
func RecordSnapshotPublished(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotsPublished.Inc()
	globalManager.snapshotPublishLatency.Observe(latencyMs)
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
}

// Asset functions.

// RecordAssetLoad records a photo load outcome and its latency.
func RecordAssetLoad(ok bool, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	result := "ok"
	if !ok {
		result = "placeholder"
	}
	globalManager.assetLoads.WithLabelValues(result).Inc()
	globalManager.assetLoadLatency.Observe(latencyMs)
}

// HTTP functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Error functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
