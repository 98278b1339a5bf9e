// Package metrics holds the Prometheus collectors of the payments service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Gateway verifications by payment kind and outcome.",
		},
		[]string{"kind", "outcome"}, // transaction|sponsorship, paid|failed|duplicate|error
	)

	EscrowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_transitions_total",
			Help: "Escrow state changes by target status and cause.",
		},
		[]string{"status", "cause"}, // cause: buyer|sweep
	)

	SweepProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleanup_processed_total",
			Help: "Rows changed by the scheduled cleanup jobs.",
		},
		[]string{"job"},
	)

	TransferFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_transfer_failures_total",
			Help: "Escrow payouts the gateway rejected.",
		},
	)

	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. It is safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PaymentVerifications, EscrowTransitions, SweepProcessed, TransferFailures, HTTPLatency)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
