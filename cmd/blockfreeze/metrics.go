package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"blockfreeze/core"
)

// runMetrics counts partition outcomes across the run; nil-safe so the
// orchestrator's own summary stays the source of truth and this is purely
// for the optional /metrics surface.
var runMetrics = struct {
	completed prometheus.Counter
	skipped   prometheus.Counter
	errored   prometheus.Counter
}{
	completed: promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfreeze_partitions_completed_total",
		Help: "Partitions successfully extracted and written.",
	}),
	skipped: promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfreeze_partitions_skipped_total",
		Help: "Partitions skipped because their output already existed.",
	}),
	errored: promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfreeze_partitions_errored_total",
		Help: "Partitions that failed extraction, transform, or write.",
	}),
}

// recordSummary adds one run's outcome counts to the process-wide counters.
func recordSummary(summary *core.FreezeSummary) {
	runMetrics.completed.Add(float64(len(summary.Completed)))
	runMetrics.skipped.Add(float64(len(summary.Skipped)))
	runMetrics.errored.Add(float64(len(summary.Errored)))
}

// serveMetrics starts a background /metrics HTTP server on addr, returning
// a shutdown func. A no-op shutdown is returned when addr is empty, so
// callers can defer it unconditionally.
func serveMetrics(addr string) func(context.Context) error {
	if addr == "" {
		return func(context.Context) error { return nil }
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("metrics server stopped unexpectedly")
		}
	}()
	return srv.Shutdown
}
