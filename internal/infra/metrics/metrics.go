package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidshelf",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of requests per route and status code",
	}, []string{"code", "method", "route"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vidshelf",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Request latency per route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidshelf",
		Subsystem: "billing",
		Name:      "webhook_events_total",
		Help:      "Stripe webhook deliveries by event type and outcome",
	}, []string{"type", "outcome"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidshelf",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDuration, WebhookEvents, RateLimited)
}
