package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame latency buckets in seconds; a frame should finish well under a millisecond.
var defaultBuckets = []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01}

// Manager owns every engine metric. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	framesProcessed  prometheus.Counter
	framesFrozen     prometheus.Counter
	parameterVectors prometheus.Counter
	drumTriggers     prometheus.Counter
	frameLatency     prometheus.Histogram
	mode             prometheus.Gauge
	eventsApplied    *prometheus.CounterVec
	eventsRejected   *prometheus.CounterVec
	sinkErrors       *prometheus.CounterVec
}

// NewManager creates a metrics manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "handgrain",
		subsystem:        "engine",
		histogramBuckets: defaultBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of camera frames run through the frame processor",
	})

	m.framesFrozen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_frozen_total",
		Help:      "Total number of synth frames suppressed by the fist freeze",
	})

	m.parameterVectors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parameter_vectors_total",
		Help:      "Total number of parameter vectors emitted",
	})

	m.drumTriggers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drum_triggers_total",
		Help:      "Total number of drum triggers emitted",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_duration_seconds",
		Help:      "Time spent processing one frame",
		Buckets:   m.histogramBuckets,
	})

	m.mode = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mode",
		Help:      "Active mode: 0 synth, 1 drum",
	})

	m.eventsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_applied_total",
		Help:      "Control events applied, by event name",
	}, []string{"event"})

	m.eventsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Control events rejected as malformed, by event name",
	}, []string{"event"})

	m.sinkErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_errors_total",
		Help:      "Failed sends to an output sink, by sink",
	}, []string{"sink"})
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFrame records one processed frame.
func (m *Manager) ObserveFrame(d time.Duration, frozen bool) {
	if m == nil {
		return
	}
	m.framesProcessed.Inc()
	m.frameLatency.Observe(d.Seconds())
	if frozen {
		m.framesFrozen.Inc()
	}
}

// RecordParameterVector counts one emitted parameter vector.
func (m *Manager) RecordParameterVector() {
	if m == nil {
		return
	}
	m.parameterVectors.Inc()
}

// RecordDrumTrigger counts one emitted drum trigger.
func (m *Manager) RecordDrumTrigger() {
	if m == nil {
		return
	}
	m.drumTriggers.Inc()
}

// SetMode publishes the active mode.
func (m *Manager) SetMode(mode int) {
	if m == nil {
		return
	}
	m.mode.Set(float64(mode))
}

// RecordEvent counts an applied or rejected control event.
func (m *Manager) RecordEvent(name string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.eventsRejected.WithLabelValues(name).Inc()
		return
	}
	m.eventsApplied.WithLabelValues(name).Inc()
}

// RecordSinkError counts a failed send to the named sink.
func (m *Manager) RecordSinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}
