// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/hubbub/internal/events"
	"github.com/tomtom215/hubbub/internal/logging"
)

// emitTimeout bounds how long a listen failure waits for the event bus.
const emitTimeout = 5 * time.Second

// HTTPServer matches the *http.Server lifecycle methods.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service.
//
// A listen or serve failure is reported as an error event before the
// service returns, so consumers learn the callback endpoint is down.
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	emitter         events.Emitter
	name            string
}

// NewHTTPServerService creates the wrapper. addr only labels the error
// event; emitter may be nil.
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, emitter events.Emitter) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		emitter:         emitter,
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not a failure.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			h.reportFailure(ctx, err)
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown needs its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServerService) reportFailure(ctx context.Context, err error) {
	msg := fmt.Sprintf("Failed to start listening on %s (%v)", h.addr, err)
	logging.Error().Err(err).Str("addr", h.addr).Msg("HTTP server failed")

	if h.emitter == nil {
		return
	}
	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()
	if emitErr := h.emitter.Emit(emitCtx, events.Error{Message: msg}); emitErr != nil {
		logging.Error().Err(emitErr).Msg("Failed to emit error event")
	}
}

// String implements fmt.Stringer.
func (h *HTTPServerService) String() string {
	return h.name
}
