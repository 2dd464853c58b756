// Package metrics exposes build metrics for long running watch sessions.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "windgen"

// Metrics holds the collectors of one process on a private registry, so
// several compilers in a test binary never collide on registration.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	builds       *prometheus.CounterVec
	duration     prometheus.Histogram
	candidates   prometheus.Gauge
	rules        prometheus.Gauge
	warnings     prometheus.Counter
	cacheLookups *prometheus.CounterVec
	filesScanned prometheus.Counter
	filesChanged prometheus.Counter
}

// New registers the build collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "total",
			Help:      "Builds by outcome",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Build duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		candidates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "candidates",
			Help:      "Distinct candidates known after the last build",
		}),
		rules: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "rules",
			Help:      "Rules emitted by the last build",
		}),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "warnings_total",
			Help:      "Warnings reported by builds",
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Context cache lookups by result",
		}, []string{"result"}),
		filesScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "files_scanned_total",
			Help:      "Content files matched by the content globs",
		}),
		filesChanged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "files_read_total",
			Help:      "Content files read because they were new or modified",
		}),
	}
}

// ObserveBuild records one build.
func (m *Metrics) ObserveBuild(d time.Duration, candidates, rules, warnings int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.builds.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
	if err != nil {
		return
	}
	m.candidates.Set(float64(candidates))
	m.rules.Set(float64(rules))
	m.warnings.Add(float64(warnings))
}

// ObserveCache records a context cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveScan records a content scan: files matched and files read.
func (m *Metrics) ObserveScan(scanned, read int) {
	if m == nil {
		return
	}
	m.filesScanned.Add(float64(scanned))
	m.filesChanged.Add(float64(read))
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
