/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	// BuildDuration observes how long one BuildPlayout call took, per channel.
	BuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playoutd_build_duration_seconds",
		Help:    "Duration of a single BuildPlayout call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel_id"})

	// BuildItemsEmittedTotal counts PlayoutItems a build emitted.
	BuildItemsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playoutd_build_items_emitted_total",
		Help: "Total PlayoutItems emitted by BuildPlayout.",
	}, []string{"channel_id"})

	// BuildCancellationsTotal counts builds that exited via ErrScanCanceled.
	BuildCancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playoutd_build_cancellations_total",
		Help: "Total BuildPlayout calls that exited on cancellation.",
	}, []string{"channel_id"})

	// SchedulerTicksTotal counts scheduler driver loop iterations.
	SchedulerTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playoutd_scheduler_ticks_total",
		Help: "Total scheduler tick loop iterations.",
	})

	// SchedulerErrorsTotal counts errors encountered while driving a build.
	SchedulerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playoutd_scheduler_errors_total",
		Help: "Total scheduler errors by channel and stage.",
	}, []string{"channel_id", "stage"})

	// DatabaseQueryDuration observes gorm callback-instrumented query latency.
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playoutd_database_query_duration_seconds",
		Help:    "Duration of database operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DatabaseErrorsTotal counts gorm callback-observed query errors.
	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playoutd_database_errors_total",
		Help: "Total database errors by operation and reason.",
	}, []string{"operation", "reason"})

	// DatabaseConnectionsActive tracks the open connection pool size.
	DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playoutd_database_connections_active",
		Help: "Open database connections.",
	})

	// APIRequestDuration observes the read-only HTTP surface's latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playoutd_api_request_duration_seconds",
		Help:    "Duration of HTTP requests served by internal/server.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIRequestsTotal counts HTTP requests served by internal/server.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playoutd_api_requests_total",
		Help: "Total HTTP requests served by internal/server.",
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections tracks in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playoutd_api_active_connections",
		Help: "In-flight HTTP requests.",
	})
)
