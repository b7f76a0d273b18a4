// Package metrics exposes Prometheus instrumentation for recommendations and
// catalog requests. Each process owns one Metrics value with its own
// registry, so tests can create as many as they like without clashing on the
// global default registerer.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Mood-Music-Go/pkg/music"
)

const namespace = "moodmusic"

// Path labels for recommendations.
const (
	PathMatch    = "match"
	PathFallback = "fallback"
)

// Outcome labels for catalog requests.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics bundles the collectors registered for the application.
type Metrics struct {
	Registry        *prometheus.Registry
	Recommendations *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	CatalogRequests *prometheus.CounterVec
	CatalogLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendations served, by genre and path (match or fallback).",
		}, []string{"genre", "path"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_failures_total",
			Help:      "Recommendation requests that ended in an error, by reason.",
		}, []string{"reason"}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Catalog searches, by service and outcome.",
		}, []string{"service", "outcome"}),
		CatalogLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_seconds",
			Help:      "Latency of catalog searches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
	}
	reg.MustRegister(
		m.Recommendations,
		m.Failures,
		m.CatalogRequests,
		m.CatalogLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRecommendation counts a served recommendation.
func (m *Metrics) ObserveRecommendation(genre string, fallback bool) {
	if m == nil {
		return
	}
	path := PathMatch
	if fallback {
		path = PathFallback
	}
	m.Recommendations.WithLabelValues(genre, path).Inc()
}

// ObserveFailure counts a failed recommendation request.
func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(reason).Inc()
}

// ObserveCatalog records the outcome and latency of one catalog search.
func (m *Metrics) ObserveCatalog(service string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case errors.Is(err, music.ErrNoTracks):
		outcome = OutcomeEmpty
	case err != nil:
		outcome = OutcomeError
	}
	m.CatalogRequests.WithLabelValues(service, outcome).Inc()
	m.CatalogLatency.WithLabelValues(service).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry to path for the node exporter textfile
// collector. Short-lived commands use it instead of serving /metrics.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

// instrumented decorates a music.Service with request metrics.
type instrumented struct {
	next    music.Service
	name    string
	metrics *Metrics
}

// Instrument wraps svc so every SearchGenre call is counted and timed under
// the given service name. A nil Metrics returns svc unchanged.
func Instrument(svc music.Service, name string, m *Metrics) music.Service {
	if m == nil {
		return svc
	}
	return &instrumented{next: svc, name: name, metrics: m}
}

func (i *instrumented) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	start := time.Now()
	tracks, err := i.next.SearchGenre(ctx, genre, limit)
	i.metrics.ObserveCatalog(i.name, time.Since(start), err)
	return tracks, err
}
