// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/hubbub/internal/middleware"
)

// RouterConfig configures the HTTP surface.
type RouterConfig struct {
	// CallbackPath is where hubs reach the receiver.
	CallbackPath string
	// Auth guards /api. Nil answers every /api route with 503.
	Auth *BasicAuth
	// Middleware configures CORS and rate limiting.
	Middleware *ChiMiddlewareConfig
}

// Router wires the receiver, the status API and the operational endpoints.
type Router struct {
	config        RouterConfig
	handler       *Handler
	receiver      http.Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. receiver is the WebSub callback handler.
func NewRouter(config RouterConfig, handler *Handler, receiver http.Handler) *Router {
	if config.CallbackPath == "" {
		config.CallbackPath = "/hubbub"
	}
	return &Router{
		config:        config,
		handler:       handler,
		receiver:      receiver,
		chiMiddleware: NewChiMiddleware(config.Middleware),
	}
}

// SetupChi builds the chi handler tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	callbackPath := strings.TrimRight(router.config.CallbackPath, "/")
	if callbackPath != "" {
		r.Get("/", router.handler.Hello)
	}

	// WebSub callback: the receiver answers every method itself.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		if callbackPath == "" {
			r.Handle("/*", router.receiver)
			return
		}
		r.Handle(callbackPath, router.receiver)
		r.Handle(callbackPath+"/*", router.receiver)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		if router.config.Auth != nil {
			r.Use(router.config.Auth.Middleware)
		} else {
			r.Use(statusAPIDisabled)
		}

		r.Get("/status", router.handler.Status)
		r.Get("/active", router.handler.Active)
		r.Get("/inactive", router.handler.Inactive)
		r.Post("/channels", router.handler.AddChannel)
		r.Delete("/channels/{id}", router.handler.RemoveChannel)
	})

	return r
}

// ReceiverErrorHandler renders receiver errors as JSON envelopes when the
// receiver is mounted in this router.
func ReceiverErrorHandler(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondError(w, r, status, errorCode(status), message, nil)
}

func statusAPIDisabled(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Status API has no password configured", nil)
	})
}
