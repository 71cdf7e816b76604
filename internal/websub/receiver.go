// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package websub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/hubbub/internal/events"
	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/metrics"
)

// DefaultMaxContentSize bounds notification bodies when none is configured.
const DefaultMaxContentSize = 3 * 1024 * 1024

// readChunkSize is how much of the body is read and hashed per step.
const readChunkSize = 32 * 1024

// DefaultEmitTimeout bounds how long a request waits to hand its event to
// the bus.
const DefaultEmitTimeout = 5 * time.Second

// ErrorHandler renders an error result when the receiver is embedded in a
// larger router. It must write status as the response code.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, message string)

// ReceiverConfig configures the callback endpoint.
type ReceiverConfig struct {
	// Secret is the master secret. Empty disables signature checks.
	Secret string
	// MaxContentSize is the largest accepted body. Default 3 MiB.
	MaxContentSize int64
	// ErrorHandler, when set, replaces the built-in HTML error page.
	ErrorHandler ErrorHandler
	// EmitTimeout bounds event delivery per request. Default 5s.
	EmitTimeout time.Duration
}

// Result is the outcome of one callback request, independent of how it is
// written to the wire.
type Result struct {
	Status int
	Header http.Header
	Body   []byte

	// Message is set for error results (status >= 400).
	Message string
	// Event is emitted after the response is written. Nil for none.
	Event events.Event
}

// IsError reports whether the result is an error response.
func (r Result) IsError() bool {
	return r.Status >= http.StatusBadRequest
}

func errorResult(status int) Result {
	return Result{Status: status, Message: http.StatusText(status)}
}

func textResult(status int, contentType string, body []byte, e events.Event) Result {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	return Result{Status: status, Header: h, Body: body, Event: e}
}

// Receiver is the HTTP endpoint hubs call for verification of intent (GET)
// and content distribution (POST).
type Receiver struct {
	cfg     ReceiverConfig
	emitter events.Emitter
}

var _ http.Handler = (*Receiver)(nil)

// NewReceiver creates a receiver emitting events to emitter.
func NewReceiver(cfg ReceiverConfig, emitter events.Emitter) *Receiver {
	if cfg.MaxContentSize <= 0 {
		cfg.MaxContentSize = DefaultMaxContentSize
	}
	if cfg.EmitTimeout <= 0 {
		cfg.EmitTimeout = DefaultEmitTimeout
	}
	return &Receiver{cfg: cfg, emitter: emitter}
}

// ServeHTTP writes the result of Handle and then emits its event.
func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := rc.Handle(r)

	if res.IsError() {
		logging.Ctx(r.Context()).Error().
			Int("code", res.Status).
			Str("method", r.Method).
			Msg(res.Message)
		if rc.cfg.ErrorHandler != nil {
			rc.cfg.ErrorHandler(w, r, res.Status, res.Message)
		} else {
			WriteErrorPage(w, res.Status, res.Message)
		}
		return
	}

	for k, v := range res.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(res.Status)
	if len(res.Body) > 0 {
		_, _ = w.Write(res.Body)
	}

	if res.Event != nil {
		// The hub gets its answer even if the bus is not dispatching yet.
		_ = http.NewResponseController(w).Flush()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), rc.cfg.EmitTimeout)
		defer cancel()
		if err := rc.emitter.Emit(ctx, res.Event); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).
				Str("kind", string(res.Event.Kind())).
				Msg("Failed to emit event")
		}
	}
}

// Handle runs the protocol state machine for one request.
func (rc *Receiver) Handle(r *http.Request) Result {
	switch r.Method {
	case http.MethodGet:
		return rc.handleIntent(r)
	case http.MethodPost:
		return rc.handleNotification(r)
	default:
		return errorResult(http.StatusMethodNotAllowed)
	}
}

// handleIntent answers a verification-of-intent request.
func (rc *Receiver) handleIntent(r *http.Request) Result {
	q := r.URL.Query()
	topic := q.Get("hub.topic")
	mode := q.Get("hub.mode")
	if topic == "" || mode == "" {
		metrics.IntentVerificationsTotal.WithLabelValues("invalid").Inc()
		return errorResult(http.StatusBadRequest)
	}

	challenge := q.Get("hub.challenge")
	hub := q.Get("hub")

	var (
		body  string
		event events.Event
	)
	switch Mode(mode) {
	case ModeDenied:
		body = challenge
		if body == "" {
			body = "ok"
		}
		event = events.Denied{Topic: topic, Hub: hub}
	case ModeSubscribe:
		body = challenge
		event = events.Subscribe{Topic: topic, Hub: hub, LeaseSeconds: parseLease(q.Get("hub.lease_seconds"))}
	case ModeUnsubscribe:
		body = challenge
		event = events.Unsubscribe{Topic: topic, Hub: hub}
	default:
		metrics.IntentVerificationsTotal.WithLabelValues("invalid").Inc()
		return errorResult(http.StatusForbidden)
	}

	metrics.IntentVerificationsTotal.WithLabelValues(mode).Inc()
	logging.Ctx(r.Context()).Info().Str("mode", mode).Str("topic", topic).Msg("Verification of intent")
	return textResult(http.StatusOK, "text/plain", []byte(body), event)
}

// handleNotification validates and accepts a content distribution request.
func (rc *Receiver) handleNotification(r *http.Request) Result {
	q := r.URL.Query()
	topic, hub, ok := applyLinks(strings.Join(r.Header.Values("Link"), ", "), q.Get("topic"), q.Get("hub"))
	if !ok || topic == "" {
		metrics.RecordNotification("bad_request", 0)
		return errorResult(http.StatusBadRequest)
	}

	logger := logging.Ctx(r.Context()).With().Str("topic", topic).Str("hub", hub).Logger()
	logger.Info().Msg("Received POST request")

	var (
		mac       hash.Hash
		signature string
	)
	if rc.cfg.Secret != "" {
		header := r.Header.Get(SignatureHeader)
		if header == "" {
			metrics.RecordNotification("forbidden", 0)
			return errorResult(http.StatusForbidden)
		}
		var algorithm string
		algorithm, signature = ParseSignatureHeader(header)
		var err error
		mac, err = NewSignatureHash(algorithm, DeriveSecret(rc.cfg.Secret, topic))
		if err != nil {
			metrics.RecordNotification("forbidden", 0)
			return errorResult(http.StatusForbidden)
		}
	}

	body, err := readBody(r.Body, rc.cfg.MaxContentSize, mac)
	if errors.Is(err, errTooLarge) {
		metrics.RecordNotification("too_large", 0)
		return errorResult(http.StatusRequestEntityTooLarge)
	}
	if err != nil {
		metrics.RecordNotification("bad_request", 0)
		logger.Warn().Err(err).Msg("Failed to read notification body")
		return errorResult(http.StatusBadRequest)
	}

	if mac != nil && !digestMatches(mac, signature) {
		// The hub must still see a 2xx on a signature mismatch.
		metrics.RecordNotification("invalid_signature", 0)
		logger.Warn().Msg("Invalid signature")
		return textResult(http.StatusAccepted, "text/plain; charset=utf-8", nil, nil)
	}

	metrics.RecordNotification("accepted", int64(len(body)))
	logger.Info().Int("bytes", len(body)).Msg("Valid subscription notification")

	return textResult(http.StatusNoContent, "text/plain; charset=utf-8", nil, events.Feed{
		Topic:       topic,
		Hub:         hub,
		CallbackURL: "http://" + r.Host + r.URL.RequestURI(),
		Body:        body,
		Headers:     r.Header.Clone(),
	})
}

var errTooLarge = errors.New("request body exceeds max content size")

// readBody reads body in chunks, feeding each accepted chunk to mac in
// arrival order. Reading stops at the first chunk that would push the total
// past limit.
func readBody(body io.Reader, limit int64, mac hash.Hash) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			if int64(buf.Len())+int64(n) > limit {
				return nil, errTooLarge
			}
			buf.Write(chunk[:n])
			if mac != nil {
				mac.Write(chunk[:n])
			}
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	}
}

// parseLease returns hub.lease_seconds as a number, or 0 when absent or
// not numeric.
func parseLease(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// WriteErrorPage writes the minimal HTML error page used in standalone mode.
func WriteErrorPage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<!doctype html>
<html>
    <head>
        <meta charset="utf-8"/>
        <title>%[1]d %[2]s</title>
    </head>
    <body>
        <h1>%[1]d %[2]s</h1>
    </body>
</html>`, status, message)
}
