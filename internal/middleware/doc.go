// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

// Package middleware provides the chi-compatible HTTP middleware shared by
// every route: request IDs, access logging and Prometheus instrumentation.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID, middleware.AccessLog, middleware.PrometheusMetrics)
package middleware
