// Package monitoring exposes prometheus metrics for the booking engine.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_requests_total",
			Help: "Purchase requests by terminal outcome",
		},
		[]string{"outcome"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purchase_duration_seconds",
			Help:    "End-to-end duration of a purchase decision",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

// ObservePurchase records one finished purchase attempt. outcome is
// the terminal state: committed, not_found, invalid_request, capacity,
// conflict or store_error.
func ObservePurchase(outcome string, d time.Duration) {
	purchaseOutcomes.WithLabelValues(outcome).Inc()
	purchaseDuration.Observe(d.Seconds())
}
