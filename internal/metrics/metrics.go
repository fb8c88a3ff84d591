// Package metrics records per-run resolution statistics and exports them in
// the prometheus text format.
package metrics

import (
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
)

// Recorder owns a private registry so that separate runs (and tests) never
// share counters.
type Recorder struct {
	registry *prometheus.Registry

	bundlesResolved *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	entriesWritten  *prometheus.CounterVec
	resolution      *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		bundlesResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classpath_installer_bundles_resolved_total",
				Help: "Number of bundles in the resolved closure, by project bundle.",
			},
			[]string{"bundle"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classpath_installer_cache_hits_total",
				Help: "Closures served from the cache.",
			},
			[]string{"bundle"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classpath_installer_cache_misses_total",
				Help: "Closures computed because no usable cache entry existed.",
			},
			[]string{"bundle"},
		),
		entriesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classpath_installer_classpath_entries_total",
				Help: "Library entries written to classpath descriptors, by module.",
			},
			[]string{"module"},
		),
		resolution: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classpath_installer_resolution_seconds",
				Help:    "Time taken to resolve one project bundle.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"bundle"},
		),
	}
	r.registry.MustRegister(
		r.bundlesResolved,
		r.cacheHits,
		r.cacheMisses,
		r.entriesWritten,
		r.resolution,
	)
	return r
}

func (r *Recorder) CacheHit(bundle string) {
	r.cacheHits.WithLabelValues(bundle).Inc()
}

func (r *Recorder) CacheMiss(bundle string) {
	r.cacheMisses.WithLabelValues(bundle).Inc()
}

func (r *Recorder) BundlesResolved(bundle string, count int) {
	r.bundlesResolved.WithLabelValues(bundle).Add(float64(count))
}

func (r *Recorder) ResolutionFinished(bundle string, elapsed time.Duration) {
	r.resolution.WithLabelValues(bundle).Observe(elapsed.Seconds())
}

func (r *Recorder) EntriesWritten(module string, count int) {
	r.entriesWritten.WithLabelValues(module).Add(float64(count))
}

// Registry exposes the gatherer for callers that serve or inspect metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the node-exporter textfile
// format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics file").
			WithCause(err)
	}
	return nil
}

var _ ports.ResolutionObserver = (*Recorder)(nil)
