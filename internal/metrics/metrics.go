// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hub subscription requests
	HubRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websub_hub_requests_total",
			Help: "Total number of subscription requests sent to the hub",
		},
		[]string{"mode", "result"}, // result: "accepted", "denied", "error", "rejected"
	)

	HubRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "websub_hub_request_duration_seconds",
			Help:    "Duration of hub subscription requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	// Verification of intent callbacks
	IntentVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websub_intent_verifications_total",
			Help: "Total number of verification-of-intent requests by mode",
		},
		[]string{"mode"}, // subscribe, unsubscribe, denied, invalid
	)

	// Content notifications
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websub_notifications_total",
			Help: "Total number of content notifications by result",
		},
		[]string{"result"}, // accepted, invalid_signature, too_large, bad_request, forbidden
	)

	NotificationBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websub_notification_body_bytes",
			Help:    "Size of accepted notification bodies in bytes",
			Buckets: prometheus.ExponentialBuckets(512, 4, 8), // 512B .. 8MiB
		},
	)

	// Renewal scheduler
	RenewalsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websub_renewals_scheduled_total",
			Help: "Total number of lease renewals scheduled by the sweep",
		},
	)

	LeasesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websub_leases_expired_total",
			Help: "Total number of channels marked unsubscribed after lease expiry",
		},
	)

	SweepErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websub_sweep_item_errors_total",
			Help: "Total number of channels whose sweep processing failed",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websub_sweep_duration_seconds",
			Help:    "Duration of renewal sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SubscribedChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websub_subscribed_channels",
			Help: "Number of channels with an active lease at the last sweep",
		},
	)

	// Event bus
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published on the bus",
		},
		[]string{"kind"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of events processed by consumers",
		},
		[]string{"kind", "handler", "result"}, // result: "success", "failure"
	)

	// Tracker and enrichment
	VideosInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_videos_inserted_total",
			Help: "Total number of new video documents stored",
		},
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_api_request_duration_seconds",
			Help:    "Duration of YouTube Data API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"result"}, // success, not_found, error
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordHubRequest records the outcome of one hub subscription request
func RecordHubRequest(mode, result string, duration time.Duration) {
	HubRequestsTotal.WithLabelValues(mode, result).Inc()
	HubRequestDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordNotification records a notification outcome and, when accepted, its size
func RecordNotification(result string, bodyBytes int64) {
	NotificationsTotal.WithLabelValues(result).Inc()
	if result == "accepted" {
		NotificationBytes.Observe(float64(bodyBytes))
	}
}

// RecordSweep records one completed renewal sweep
func RecordSweep(duration time.Duration, subscribed int) {
	SweepDuration.Observe(duration.Seconds())
	SubscribedChannels.Set(float64(subscribed))
}

// RecordEventHandled records a consumer outcome for an event
func RecordEventHandled(kind, handler string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsHandled.WithLabelValues(kind, handler, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
