// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package api is the HTTP surface of Hubbub.

Routes:

	GET  /                       hello world
	*    /hubbub                 WebSub callback (verification and delivery)
	GET  /health/live            liveness probe
	GET  /health/ready           readiness probe (store, event bus)
	GET  /metrics                Prometheus metrics
	GET  /api/status             all channels keyed by ID
	GET  /api/active             channels with a live subscription
	GET  /api/inactive           channels without one
	POST /api/channels           track a channel and subscribe
	DELETE /api/channels/{id}    unsubscribe

Everything under /api requires HTTP Basic credentials and is rate limited
per client IP. The first three keep the bare JSON shapes existing
dashboards read; the channel endpoints and all errors use APIResponse.
The callback path is configurable and is never rate limited.
*/
package api
