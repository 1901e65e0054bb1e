// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements the Metrics interface using Prometheus
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// Request metrics
	attempts       *prometheus.CounterVec
	attemptLatency *prometheus.HistogramVec
	retries        *prometheus.CounterVec
	timeouts       *prometheus.CounterVec

	// Node metrics
	nodeHealthy  *prometheus.GaugeVec
	nodeFailures *prometheus.CounterVec

	// Transaction metrics
	chunksSubmitted      *prometheus.CounterVec
	queryPaymentRejected *prometheus.CounterVec

	// Subscription metrics
	subscriptionMessages   *prometheus.CounterVec
	subscriptionReconnects *prometheus.CounterVec
}

// NewPrometheusMetrics creates metrics on a dedicated registry
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),

		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Total number of request attempts by outcome",
			},
			[]string{"method", "outcome"},
		),
		attemptLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "attempt_latency_seconds",
				Help:      "Latency of individual request attempts",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retried attempts",
			},
			[]string{"method"},
		),
		timeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "timeouts_total",
				Help:      "Total number of requests that gave up retrying",
			},
			[]string{"method", "reason"},
		),
		nodeHealthy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "node_healthy",
				Help:      "Whether a node is currently considered healthy",
			},
			[]string{"node"},
		),
		nodeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_failures_total",
				Help:      "Total number of times a node was marked unhealthy",
			},
			[]string{"node"},
		),
		chunksSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chunks_submitted_total",
				Help:      "Total number of transaction chunks accepted by a node",
			},
			[]string{"method"},
		),
		queryPaymentRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_payment_rejected_total",
				Help:      "Total number of queries whose cost exceeded the payment ceiling",
			},
			[]string{"query"},
		),
		subscriptionMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscription_messages_total",
				Help:      "Total number of messages delivered to subscribers",
			},
			[]string{"topic"},
		),
		subscriptionReconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscription_reconnects_total",
				Help:      "Total number of subscription stream reconnects",
			},
			[]string{"topic"},
		),
	}

	m.registerMetrics()

	return m
}

func (m *PrometheusMetrics) registerMetrics() {
	m.registry.MustRegister(
		m.attempts,
		m.attemptLatency,
		m.retries,
		m.timeouts,
		m.nodeHealthy,
		m.nodeFailures,
		m.chunksSubmitted,
		m.queryPaymentRejected,
		m.subscriptionMessages,
		m.subscriptionReconnects,
	)
}

// Registry returns the underlying registry
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler returns a handler serving the registry in the Prometheus text format
func (m *PrometheusMetrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PrometheusMetrics) IncAttempts(method string, outcome string) {
	m.attempts.WithLabelValues(method, outcome).Inc()
}

func (m *PrometheusMetrics) ObserveAttemptLatency(method string, latency time.Duration) {
	m.attemptLatency.WithLabelValues(method).Observe(latency.Seconds())
}

func (m *PrometheusMetrics) IncRetries(method string) {
	m.retries.WithLabelValues(method).Inc()
}

func (m *PrometheusMetrics) IncTimeouts(method string, reason string) {
	m.timeouts.WithLabelValues(method, reason).Inc()
}

func (m *PrometheusMetrics) SetNodeHealthy(node string, healthy bool) {
	var val float64
	if healthy {
		val = 1
	}
	m.nodeHealthy.WithLabelValues(node).Set(val)
}

func (m *PrometheusMetrics) IncNodeFailures(node string) {
	m.nodeFailures.WithLabelValues(node).Inc()
}

func (m *PrometheusMetrics) IncChunksSubmitted(method string) {
	m.chunksSubmitted.WithLabelValues(method).Inc()
}

func (m *PrometheusMetrics) IncQueryPaymentRejected(query string) {
	m.queryPaymentRejected.WithLabelValues(query).Inc()
}

func (m *PrometheusMetrics) IncSubscriptionMessages(topic string) {
	m.subscriptionMessages.WithLabelValues(topic).Inc()
}

func (m *PrometheusMetrics) IncSubscriptionReconnects(topic string) {
	m.subscriptionReconnects.WithLabelValues(topic).Inc()
}
