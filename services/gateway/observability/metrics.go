// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the designer gateway.
//
// # Description
//
// Metrics cover the design request lifecycle:
//   - Request counters (by operation and status)
//   - Intent resolution outcomes (model parse vs. deterministic fallback)
//   - Risk levels emitted by assessments
//   - Model call latency and in-flight gauge
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "architect"

// Subsystem for gateway metrics
const gatewaySubsystem = "gateway"

// GatewayMetrics holds all Prometheus metrics for the designer gateway.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring design request
// handling. Initialize once at startup via InitMetrics(). All helper methods
// are nil-receiver safe, so handlers can record unconditionally and tests
// can run without a registry.
//
// # Fields
//
//   - RequestsTotal: Counter of design requests by operation and status
//   - IntentOutcomesTotal: Counter of intent resolutions by outcome
//   - RiskLevelsTotal: Counter of assessed risk levels
//   - RateLimitedTotal: Counter of requests rejected by rate limiting
//   - ModelCallsActive: Gauge of in-flight model calls
//   - ModelCallSeconds: Histogram of model call duration
type GatewayMetrics struct {
	// RequestsTotal counts handled requests by operation and status.
	// Labels: operation (design_create, design_apply, risk_assess,
	// knowledge, diagrams, feedback), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// IntentOutcomesTotal counts how each design prompt's intent was
	// resolved. Labels: outcome (model, error, fallback)
	IntentOutcomesTotal *prometheus.CounterVec

	// RiskLevelsTotal counts risk assessments by resulting level.
	// Labels: level (low, medium, high, critical)
	RiskLevelsTotal *prometheus.CounterVec

	// RateLimitedTotal counts requests rejected with 429.
	RateLimitedTotal prometheus.Counter

	// ModelCallsActive tracks in-flight intent model calls.
	ModelCallsActive prometheus.Gauge

	// ModelCallSeconds measures intent model call duration.
	// Labels: status (success, error)
	ModelCallSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of GatewayMetrics.
// Initialized by InitMetrics(); nil until then, which disables recording.
var DefaultMetrics *GatewayMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Call once at application
// startup, before serving traffic.
//
// # Outputs
//
//   - *GatewayMetrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *GatewayMetrics {
	DefaultMetrics = &GatewayMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "requests_total",
				Help:      "Total handled requests by operation and status",
			},
			[]string{"operation", "status"},
		),

		IntentOutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "intent_outcomes_total",
				Help:      "Intent resolutions by outcome (model, error, fallback)",
			},
			[]string{"outcome"},
		),

		RiskLevelsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "risk_levels_total",
				Help:      "Risk assessments by resulting level",
			},
			[]string{"level"},
		),

		RateLimitedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by rate limiting",
			},
		),

		ModelCallsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "model_calls_active",
				Help:      "Number of in-flight intent model calls",
			},
		),

		ModelCallSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "model_call_seconds",
				Help:      "Intent model call duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"status"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Operation Names
// =============================================================================

// Operation labels a gateway endpoint family for metrics.
type Operation string

const (
	// OpDesignCreate is the create-diagram endpoint.
	OpDesignCreate Operation = "design_create"

	// OpDesignApply is the add/modify endpoint.
	OpDesignApply Operation = "design_apply"

	// OpRiskAssess is the standalone risk assessment endpoint.
	OpRiskAssess Operation = "risk_assess"

	// OpKnowledge covers the knowledge corpus inspection endpoints.
	OpKnowledge Operation = "knowledge"

	// OpDiagrams covers the diagram CRUD endpoints.
	OpDiagrams Operation = "diagrams"

	// OpFeedback is the feedback submission endpoint.
	OpFeedback Operation = "feedback"
)

// =============================================================================
// Intent Outcomes
// =============================================================================

// IntentOutcome labels how a design prompt's intent was resolved.
type IntentOutcome string

const (
	// IntentModel means the model call produced a usable intent.
	IntentModel IntentOutcome = "model"

	// IntentError means a model was configured but the call or extraction
	// failed, and the deterministic path served instead.
	IntentError IntentOutcome = "error"

	// IntentFallback means no model is configured and the deterministic
	// path served directly.
	IntentFallback IntentOutcome = "fallback"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed request.
//
// # Inputs
//
//   - op: The operation that handled the request.
//   - success: Whether the request completed successfully.
func (m *GatewayMetrics) RecordRequest(op Operation, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(op), status).Inc()
}

// RecordIntentOutcome records how one prompt's intent was resolved.
func (m *GatewayMetrics) RecordIntentOutcome(outcome IntentOutcome) {
	if m == nil {
		return
	}
	m.IntentOutcomesTotal.WithLabelValues(string(outcome)).Inc()
}

// RecordRiskLevel records the level an assessment produced.
func (m *GatewayMetrics) RecordRiskLevel(level string) {
	if m == nil {
		return
	}
	m.RiskLevelsTotal.WithLabelValues(level).Inc()
}

// RecordRateLimited records a request rejected with 429.
func (m *GatewayMetrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// ModelCallStarted increments the in-flight model call gauge.
func (m *GatewayMetrics) ModelCallStarted() {
	if m == nil {
		return
	}
	m.ModelCallsActive.Inc()
}

// ModelCallEnded decrements the in-flight model call gauge.
func (m *GatewayMetrics) ModelCallEnded() {
	if m == nil {
		return
	}
	m.ModelCallsActive.Dec()
}

// ObserveModelCall records one model call's duration.
//
// # Inputs
//
//   - seconds: Call duration in seconds.
//   - success: Whether the call yielded a usable intent.
func (m *GatewayMetrics) ObserveModelCall(seconds float64, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.ModelCallSeconds.WithLabelValues(status).Observe(seconds)
}
