// Package metrics defines Prometheus metrics for ebay-lister.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lister"

// Sell API call metrics.
var (
	APICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total eBay Sell API calls by HTTP method.",
	}, []string{"method"})

	APICallErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_call_errors_total",
		Help:      "Total failed eBay Sell API calls by error category.",
	}, []string{"category"})

	APICallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_call_duration_seconds",
		Help:      "Duration of eBay Sell API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	DailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "daily_usage",
		Help:      "API calls made within the current rolling 24-hour window.",
	})

	DailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "daily_limit_hits_total",
		Help:      "Times the daily API quota blocked a call.",
	})
)

// OAuth2 lifecycle metrics.
var (
	TokenExchangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_exchanges_total",
		Help:      "Authorization-code exchanges performed.",
	})

	TokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Access-token refresh attempts.",
	})

	TokenRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_failures_total",
		Help:      "Access-token refresh attempts rejected by the token endpoint.",
	})
)

// Listing saga metrics.
var (
	ListingStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_steps_total",
		Help:      "Listing saga steps executed, by step and outcome.",
	}, []string{"step", "status"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
