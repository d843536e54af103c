// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package metrics provides Prometheus metrics for the digest pipeline.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format:
//
//	curl http://localhost:5000/metrics
//
// Available metrics:
//
// HTTP:
//   - http_requests_total: Total HTTP requests (counter)
//     Labels: method, path, status
//   - http_request_duration_seconds: Request latency (histogram)
//     Labels: method, path
//
// Pipeline:
//   - fetch_requests_total: Upstream activity fetches (counter)
//     Labels: lang, status (success|error)
//   - issues_sent_total: Successfully dispatched campaigns (counter)
//     Labels: lang
//   - archive_writes_total: Archive files written (counter)
//     Labels: lang, format
//   - archive_write_bytes_total: Bytes written to the archive (counter)
//     Labels: lang, format
//   - archive_write_errors_total: Failed archive writes (counter)
//     Labels: lang, format
//   - history_append_errors_total: Failed history appends (counter)
//     Labels: lang
//
// Circuit breaker:
//   - circuit_breaker_state: Current state (gauge)
//     Labels: name
//     Values: 0=closed, 1=open, 2=half-open
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Pipeline metrics
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total number of upstream recent-activity fetches",
		},
		[]string{"lang", "status"},
	)

	IssuesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issues_sent_total",
			Help: "Total number of successfully dispatched issue campaigns",
		},
		[]string{"lang"},
	)

	ArchiveWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_writes_total",
			Help: "Total number of archive files written",
		},
		[]string{"lang", "format"},
	)

	ArchiveWriteBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_write_bytes_total",
			Help: "Total bytes written to the issue archive",
		},
		[]string{"lang", "format"},
	)

	ArchiveWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_write_errors_total",
			Help: "Total number of failed archive writes",
		},
		[]string{"lang", "format"},
	)

	HistoryAppendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_append_errors_total",
			Help: "Total number of failed send-history appends",
		},
		[]string{"lang"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)
