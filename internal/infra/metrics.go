package infra

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	PollChecksTotal    prometheus.Counter
	SceneImagesTotal   prometheus.Counter
	AnalysesTotal      *prometheus.CounterVec
	LogoRequestsTotal  *prometheus.CounterVec
}

// NewMetrics registers all application metrics against the given registerer.
// Tests pass a fresh registry to avoid cross-test duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "musicvideo",
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Total number of generation requests",
			},
			[]string{"mode", "status"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "musicvideo",
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Generation duration in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
			},
			[]string{"mode"},
		),
		PollChecksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "musicvideo",
				Subsystem: "generation",
				Name:      "poll_checks_total",
				Help:      "Total number of video job status checks",
			},
		),
		SceneImagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "musicvideo",
				Subsystem: "generation",
				Name:      "scene_images_total",
				Help:      "Total number of scene images generated",
			},
		),
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "musicvideo",
				Subsystem: "analysis",
				Name:      "requests_total",
				Help:      "Total number of audio analysis requests",
			},
			[]string{"status"},
		),
		LogoRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "musicvideo",
				Subsystem: "logo",
				Name:      "requests_total",
				Help:      "Total number of logo generation requests",
			},
			[]string{"status"},
		),
	}
}

// RecordGeneration records a settled generation request.
func (m *Metrics) RecordGeneration(mode, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(mode, status).Inc()
	m.GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordPollCheck records a single video job status check.
func (m *Metrics) RecordPollCheck() {
	if m == nil {
		return
	}
	m.PollChecksTotal.Inc()
}

// RecordSceneImage records a generated scene image.
func (m *Metrics) RecordSceneImage() {
	if m == nil {
		return
	}
	m.SceneImagesTotal.Inc()
}

// RecordAnalysis records an audio analysis request.
func (m *Metrics) RecordAnalysis(status string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status).Inc()
}

// RecordLogoRequest records a logo generation request.
func (m *Metrics) RecordLogoRequest(status string) {
	if m == nil {
		return
	}
	m.LogoRequestsTotal.WithLabelValues(status).Inc()
}
