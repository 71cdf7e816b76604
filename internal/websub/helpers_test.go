// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package websub

import (
	"context"
	"sync"

	"github.com/tomtom215/hubbub/internal/events"
)

// recordingEmitter collects emitted events in order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEmitter) Emit(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEmitter) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

const (
	testSecret = "abc"
	testTopic  = "https://example.com/feed"
	testHub    = "https://hub.example.com/"
	testBody   = "<feed/>"

	// HMAC-SHA1(key="abc", "https://example.com/feed")
	testDerivedSecret = "6ab2f83a375acfc22934b7e5d41c9aaa2bf088ff"
	// HMAC-SHA1(key=testDerivedSecret, "<feed/>")
	testBodySHA1 = "d984f8bc2e2aa487a600957a0f5c0c6195136ab7"
	// HMAC-SHA256(key=testDerivedSecret, "<feed/>")
	testBodySHA256 = "ba4d105ad408e263fbc6aa1470e2fdd6787432b937cb029826e122dbda701610"
)
