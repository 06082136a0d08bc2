// Package metrics exposes Prometheus instrumentation for the lesson pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes recorded on lesson_generation_requests_total.
const (
	OutcomeSuccess     = "success"
	OutcomeUpstream    = "upstream_error"
	OutcomeBlocked     = "content_blocked"
	OutcomeMalformed   = "malformed_response"
	OutcomeUnsaved     = "unsaved"
	OutcomeInvalid     = "invalid_request"
	OutcomeUnavailable = "unavailable"
)

// Pipeline stages recorded on lesson_generation_stage_duration_seconds.
const (
	StageModel   = "model"
	StageImage   = "image"
	StageUpload  = "upload"
	StagePersist = "persist"
)

// Recorder holds the lesson pipeline collectors on a private registry.
//
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	generations   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	illustrations *prometheus.CounterVec
	excerpts      *prometheus.CounterVec
}

// NewRecorder registers the lesson metrics plus Go runtime and process
// collectors on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lesson_generation_requests_total",
				Help: "Lesson generation requests, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lesson_generation_stage_duration_seconds",
				Help:    "Time spent in each stage of the generation pipeline.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"stage"},
		),
		illustrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lesson_illustrations_total",
				Help: "Illustration attempts, partitioned by whether an image was produced.",
			},
			[]string{"result"},
		),
		excerpts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "community_excerpts_shared_total",
				Help: "Excerpts shared to the community feed, partitioned by category.",
			},
			[]string{"category"},
		),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Generation counts one finished generation request.
func (r *Recorder) Generation(outcome string) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took since start.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Illustration counts one image attempt.
func (r *Recorder) Illustration(produced bool) {
	if r == nil {
		return
	}
	result := "missing"
	if produced {
		result = "produced"
	}
	r.illustrations.WithLabelValues(result).Inc()
}

// ExcerptShared counts one published excerpt.
func (r *Recorder) ExcerptShared(category string) {
	if r == nil {
		return
	}
	r.excerpts.WithLabelValues(category).Inc()
}
