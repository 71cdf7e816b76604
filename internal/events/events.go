// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package events

import (
	"net/http"
)

// Kind identifies one of the fixed lifecycle events.
type Kind string

const (
	KindSubscribe   Kind = "subscribe"
	KindUnsubscribe Kind = "unsubscribe"
	KindDenied      Kind = "denied"
	KindFeed        Kind = "feed"
	KindError       Kind = "error"
)

// Kinds lists every event kind in a stable order.
var Kinds = []Kind{KindSubscribe, KindUnsubscribe, KindDenied, KindFeed, KindError}

// Topic is the bus topic events of this kind are published on.
func (k Kind) Topic() string {
	return "hubbub." + string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is implemented by every payload type below.
type Event interface {
	Kind() Kind
}

// Subscribe is emitted when the hub confirms a subscription.
type Subscribe struct {
	Topic        string `json:"topic"`
	Hub          string `json:"hub,omitempty"`
	LeaseSeconds int64  `json:"lease"`
}

// Unsubscribe is emitted when the hub confirms an unsubscription.
type Unsubscribe struct {
	Topic string `json:"topic"`
	Hub   string `json:"hub,omitempty"`
}

// Denied is emitted when the hub refuses a subscription, either through a
// denied verification callback (Hub set) or a failed hub request (Error set).
type Denied struct {
	Topic string `json:"topic"`
	Hub   string `json:"hub,omitempty"`
	Error string `json:"error,omitempty"`
}

// Feed carries a validated content notification. Body is the raw payload.
type Feed struct {
	Topic       string      `json:"topic"`
	Hub         string      `json:"hub,omitempty"`
	CallbackURL string      `json:"callback"`
	Body        []byte      `json:"feed"`
	Headers     http.Header `json:"headers,omitempty"`
}

// Error reports a failure the service could not attribute to a request.
type Error struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func (Subscribe) Kind() Kind   { return KindSubscribe }
func (Unsubscribe) Kind() Kind { return KindUnsubscribe }
func (Denied) Kind() Kind      { return KindDenied }
func (Feed) Kind() Kind        { return KindFeed }
func (Error) Kind() Kind       { return KindError }
