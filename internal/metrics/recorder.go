// Package metrics exposes pipeline progress as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/catalog-ingest/internal/logger"
)

const namespace = "catalog_ingest"

// Ensure Recorder implements the interface.
var _ driven.SyncObserver = (*Recorder)(nil)

// Recorder implements driven.SyncObserver on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	pages          *prometheus.CounterVec
	records        *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	runs           *prometheus.CounterVec
	entities       *prometheus.GaugeVec
	runDuration    *prometheus.HistogramVec
	lastSuccessful *prometheus.GaugeVec

	now func() time.Time
}

// NewRecorder creates a recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		now:      time.Now,
	}

	r.pages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Pages fetched from the remote catalog",
	}, []string{"provider"})
	r.records = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_fetched_total",
		Help:      "Raw records received from the remote catalog",
	}, []string{"provider"})
	r.skipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Records dropped during mapping, by reason",
	}, []string{"provider", "reason"})
	r.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Finished sync runs, by final state",
	}, []string{"provider", "state"})
	r.entities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "entities",
		Help:      "Entities submitted by the last successful run",
	}, []string{"provider"})
	r.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of sync runs",
		Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"provider", "state"})
	r.lastSuccessful = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful run",
	}, []string{"provider"})

	r.registry.MustRegister(
		r.pages, r.records, r.skipped, r.runs,
		r.entities, r.runDuration, r.lastSuccessful,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// PageFetched counts one page and its records.
func (r *Recorder) PageFetched(provider string, records int) {
	r.pages.WithLabelValues(provider).Inc()
	r.records.WithLabelValues(provider).Add(float64(records))
}

// RecordSkipped counts one dropped record.
func (r *Recorder) RecordSkipped(provider, reason string) {
	r.skipped.WithLabelValues(provider, reason).Inc()
}

// RunFinished records the outcome of a run.
func (r *Recorder) RunFinished(provider string, state domain.SyncState, entities int, elapsed time.Duration) {
	r.runs.WithLabelValues(provider, string(state)).Inc()
	r.runDuration.WithLabelValues(provider, string(state)).Observe(elapsed.Seconds())
	if state == domain.SyncSucceeded {
		r.entities.WithLabelValues(provider).Set(float64(entities))
		r.lastSuccessful.WithLabelValues(provider).Set(float64(r.now().Unix()))
	}
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics and /healthz.
type Server struct {
	server *http.Server
}

// NewServer builds a metrics server for addr.
func NewServer(addr string, recorder *Recorder) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the server's mux.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening on %s", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
