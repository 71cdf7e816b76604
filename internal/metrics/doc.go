// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package metrics defines the Prometheus collectors exported on /metrics.

All collectors are registered on the default registry through promauto, so
importing the package is enough to expose them.

# Metric Families

  - websub_hub_requests_total{mode,result}: subscription requests sent to the hub
  - websub_intent_verifications_total{mode}: verification-of-intent callbacks
  - websub_notifications_total{result}: content notifications by outcome
  - websub_renewals_scheduled_total / websub_leases_expired_total: renewal sweep activity
  - events_published_total / events_handled_total: event bus traffic
  - youtube_api_request_duration_seconds{result}: enrichment latency
  - circuit_breaker_*{name}: state of the websub-hub and youtube-api breakers
  - api_requests_total / api_request_duration_seconds: HTTP surface

# Example Alert

	- alert: HubbubSignatureFailures
	  expr: rate(websub_notifications_total{result="invalid_signature"}[15m]) > 0
	  for: 30m
	  annotations:
	    summary: "Hub deliveries fail HMAC validation; check SECRET"
*/
package metrics
