// Package metrics exposes prometheus instrumentation for the visualization
// engine, playback, narration, and the HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application. Each Registry owns its
// own prometheus registry so tests and embedded uses stay isolated.
type Registry struct {
	registry *prometheus.Registry

	// Render pipeline
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	EmptyScenes    prometheus.Counter

	// Playback
	PlaybackStepsTotal prometheus.Counter
	SessionsActive     prometheus.Gauge

	// Narration
	NarrationsTotal        prometheus.Counter
	NarrationFailuresTotal prometheus.Counter

	// Translation collaborator
	TranslationsTotal   *prometheus.CounterVec
	TranslationDuration prometheus.Histogram

	// HTTP surface
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_renders_total",
		Help: "Scene renders by classified structure kind",
	}, []string{"kind"})

	r.RenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "algoviz_render_duration_seconds",
		Help:    "Time spent building a scene",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}, []string{"kind"})

	r.EmptyScenes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "algoviz_empty_scenes_total",
		Help: "Renders that degraded to an empty scene",
	})

	r.PlaybackStepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "algoviz_playback_steps_total",
		Help: "Committed playback step changes",
	})

	r.SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "algoviz_sessions_active",
		Help: "Live playback sessions",
	})

	r.NarrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "algoviz_narrations_total",
		Help: "Narration utterances started",
	})

	r.NarrationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "algoviz_narration_failures_total",
		Help: "Narration attempts that failed",
	})

	r.TranslationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_translations_total",
		Help: "Translation service calls by outcome",
	}, []string{"status"})

	r.TranslationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "algoviz_translation_duration_seconds",
		Help:    "Round-trip time of translation calls",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	r.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "algoviz_http_requests_total",
		Help: "HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	r.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "algoviz_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	reg.MustRegister(
		r.RendersTotal,
		r.RenderDuration,
		r.EmptyScenes,
		r.PlaybackStepsTotal,
		r.SessionsActive,
		r.NarrationsTotal,
		r.NarrationFailuresTotal,
		r.TranslationsTotal,
		r.TranslationDuration,
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
	)

	return r
}

// PrometheusRegistry returns the underlying prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordRender records one scene render.
func (r *Registry) RecordRender(kind string, empty bool, d time.Duration) {
	r.RendersTotal.WithLabelValues(kind).Inc()
	r.RenderDuration.WithLabelValues(kind).Observe(d.Seconds())
	if empty {
		r.EmptyScenes.Inc()
	}
}

// RecordPlaybackStep records one committed step change.
func (r *Registry) RecordPlaybackStep() {
	r.PlaybackStepsTotal.Inc()
}

// RecordNarration records one started utterance.
func (r *Registry) RecordNarration() {
	r.NarrationsTotal.Inc()
}

// RecordNarrationFailure records one failed narration attempt.
func (r *Registry) RecordNarrationFailure() {
	r.NarrationFailuresTotal.Inc()
}

// RecordTranslation records one translation call.
func (r *Registry) RecordTranslation(status string, d time.Duration) {
	r.TranslationsTotal.WithLabelValues(status).Inc()
	r.TranslationDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records one HTTP request.
func (r *Registry) RecordHTTPRequest(method, path, status string, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
