// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package websub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/hubbub/internal/breaker"
	"github.com/tomtom215/hubbub/internal/events"
	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/metrics"
)

// Mode is the hub.mode of a request or verification.
type Mode string

const (
	ModeSubscribe   Mode = "subscribe"
	ModeUnsubscribe Mode = "unsubscribe"
	ModeDenied      Mode = "denied"
)

// ClientConfig configures the subscription requester.
type ClientConfig struct {
	// CallbackURL is the base callback; topic and hub are appended per request.
	CallbackURL string
	// Secret is the master secret. Empty disables hub.secret.
	Secret string
	// LeaseSeconds is requested when > 0.
	LeaseSeconds int
	// Headers are sent with every hub request.
	Headers map[string]string
	// Timeout bounds one hub request. Default 30s.
	Timeout time.Duration
}

// SubscriptionRequest is the form posted to a hub for one (un)subscription.
type SubscriptionRequest struct {
	Mode         Mode
	Topic        string
	Hub          string
	CallbackURL  string
	LeaseSeconds int
	Secret       string // derived per-topic secret
}

// Form encodes the request as hub.* form fields.
func (r SubscriptionRequest) Form() url.Values {
	form := url.Values{}
	form.Set("hub.callback", r.CallbackURL)
	form.Set("hub.mode", string(r.Mode))
	form.Set("hub.topic", r.Topic)
	form.Set("hub.verify", "async")
	if r.LeaseSeconds > 0 {
		form.Set("hub.lease_seconds", strconv.Itoa(r.LeaseSeconds))
	}
	if r.Secret != "" {
		form.Set("hub.secret", r.Secret)
	}
	return form
}

// Client sends subscription requests to hubs. Failures are reported only
// as denied events.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	emitter    events.Emitter
	breaker    *breaker.Breaker

	wg sync.WaitGroup
}

// NewClient creates a requester. httpClient may be nil.
func NewClient(cfg ClientConfig, emitter events.Emitter, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		emitter:    emitter,
		breaker:    breaker.New("websub-hub", breaker.Settings{}),
	}
}

// Subscribe requests a subscription in the background.
func (c *Client) Subscribe(ctx context.Context, topic, hub string) {
	c.Request(ctx, ModeSubscribe, topic, hub, "")
}

// Unsubscribe requests an unsubscription in the background.
func (c *Client) Unsubscribe(ctx context.Context, topic, hub string) {
	c.Request(ctx, ModeUnsubscribe, topic, hub, "")
}

// Request sends a hub request in its own goroutine and returns immediately.
// ctx only contributes logging values; cancelling it does not abort the
// request. Pass an empty callbackURL to use the configured base.
func (c *Client) Request(ctx context.Context, mode Mode, topic, hub, callbackURL string) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.Do(ctx, mode, topic, hub, callbackURL)
	}()
}

// Wait blocks until every background request has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// NewRequest builds the request for mode/topic/hub without sending it.
func (c *Client) NewRequest(mode Mode, topic, hub, callbackURL string) SubscriptionRequest {
	if callbackURL == "" {
		callbackURL = BuildCallbackURL(c.cfg.CallbackURL, topic, hub)
	}
	req := SubscriptionRequest{
		Mode:         mode,
		Topic:        topic,
		Hub:          hub,
		CallbackURL:  callbackURL,
		LeaseSeconds: c.cfg.LeaseSeconds,
	}
	if c.cfg.Secret != "" {
		req.Secret = DeriveSecret(c.cfg.Secret, topic)
	}
	return req
}

// Do sends the request synchronously. Any failure is emitted as a denied
// event and also returned.
func (c *Client) Do(ctx context.Context, mode Mode, topic, hub, callbackURL string) error {
	start := time.Now()
	req := c.NewRequest(mode, topic, hub, callbackURL)

	logger := logging.Ctx(ctx).With().Str("mode", string(mode)).Str("topic", topic).Str("hub", hub).Logger()

	status, err := c.post(ctx, req)
	result := "accepted"
	switch {
	case err != nil && breaker.IsRejected(err):
		result = "rejected"
		err = fmt.Errorf("hub circuit open: %w", err)
	case err != nil:
		result = "error"
	case status != http.StatusAccepted && status != http.StatusNoContent:
		result = "denied"
		err = fmt.Errorf("invalid response status %d", status)
	}
	metrics.RecordHubRequest(string(mode), result, time.Since(start))

	if err != nil {
		logger.Warn().Err(err).Msg("Hub request failed")
		if emitErr := c.emitter.Emit(ctx, events.Denied{Topic: topic, Error: err.Error()}); emitErr != nil {
			logger.Error().Err(emitErr).Msg("Failed to emit denied event")
		}
		return err
	}

	logger.Debug().Int("status", status).Msg("Hub accepted request")
	return nil
}

// post sends the form. Transport failures and 5xx responses count against
// the breaker; other statuses mean the hub is reachable.
func (c *Client) post(ctx context.Context, req SubscriptionRequest) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	status, err := breaker.Cast[int](c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Hub, strings.NewReader(req.Form().Encode()))
		if err != nil {
			return nil, fmt.Errorf("build hub request: %w", err)
		}
		for k, v := range c.cfg.Headers {
			httpReq.Header.Set(k, v)
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("hub request: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		code := resp.StatusCode
		if code >= http.StatusInternalServerError {
			return nil, fmt.Errorf("invalid response status %d", code)
		}
		return &code, nil
	}))
	if err != nil {
		return 0, err
	}
	return *status, nil
}

// BuildCallbackURL appends topic and hub as query parameters to base. A '/'
// is added when base has no path at all, and '&' is used instead of '?'
// when base already carries a query.
func BuildCallbackURL(base, topic, hub string) string {
	var b strings.Builder
	b.WriteString(base)

	rest := base
	if lower := strings.ToLower(base); strings.HasPrefix(lower, "http://") {
		rest = base[len("http://"):]
	} else if strings.HasPrefix(lower, "https://") {
		rest = base[len("https://"):]
	}
	if !strings.Contains(rest, "/") {
		b.WriteByte('/')
	}
	if strings.Contains(base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}

	b.WriteString("topic=")
	b.WriteString(encodeComponent(topic))
	b.WriteString("&hub=")
	b.WriteString(encodeComponent(hub))
	return b.String()
}

// encodeComponent escapes s for use as a query value, with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
