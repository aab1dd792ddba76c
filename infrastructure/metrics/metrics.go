// Package metrics records execution metrics with Prometheus and serves them over HTTP.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultTimeout = "timeout"
	ResultError   = "error"
)

const shutdownTimeout = 5 * time.Second

var _ ports.ExecutionObserver = (*Collector)(nil)

// Collector is an execution observer backed by Prometheus metrics.
type Collector struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   *prometheus.GaugeVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "toolforge",
				Name:      "executions_total",
				Help:      "Toolchain executions by result.",
			},
			[]string{"tool", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "toolforge",
				Name:      "execution_duration_seconds",
				Help:      "Toolchain execution duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
			},
			[]string{"tool"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "toolforge",
				Name:      "executions_in_flight",
				Help:      "Toolchain executions currently running.",
			},
			[]string{"tool"},
		),
	}

	for _, col := range []prometheus.Collector{c.executions, c.duration, c.inFlight} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ExecutionStarted implements ports.ExecutionObserver.
func (c *Collector) ExecutionStarted(_ context.Context, tool string) {
	c.inFlight.WithLabelValues(tool).Inc()
}

// ExecutionFinished implements ports.ExecutionObserver.
func (c *Collector) ExecutionFinished(_ context.Context, tool string, outcome *entities.ExecutionOutcome) {
	c.inFlight.WithLabelValues(tool).Dec()
	c.executions.WithLabelValues(tool, Result(outcome)).Inc()
	c.duration.WithLabelValues(tool).Observe(outcome.Duration.Seconds())
}

// Result classifies an outcome for the result label.
func Result(o *entities.ExecutionOutcome) string {
	switch {
	case o == nil || o.HasFatalError():
		return ResultError
	case o.TimedOut:
		return ResultTimeout
	case o.Success():
		return ResultSuccess
	default:
		return ResultFailed
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
