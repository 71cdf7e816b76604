// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hubbub/internal/metrics"
)

func TestBreaker_OpensAfterFailureRatio(t *testing.T) {
	t.Parallel()

	b := New("test-opens", Settings{MinRequests: 4, FailureRatio: 0.5, Timeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_, _ = b.Execute(func() (interface{}, error) { return nil, boom })
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	_, err := b.Execute(func() (interface{}, error) { return "unreached", nil })
	if !IsRejected(err) {
		t.Fatalf("expected rejection while open, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-opens", "rejected")); got != 1 {
		t.Errorf("rejected counter = %v, want 1", got)
	}
}

func TestBreaker_StaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()

	b := New("test-min", Settings{})
	for i := 0; i < 9; i++ {
		_, _ = b.Execute(func() (interface{}, error) { return nil, errors.New("fail") })
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed below the request minimum", b.State())
	}
}

func TestCast(t *testing.T) {
	t.Parallel()

	type payload struct{ N int }

	got, err := Cast[payload](&payload{N: 3}, nil)
	if err != nil || got.N != 3 {
		t.Fatalf("Cast() = %v, %v", got, err)
	}
	if _, err := Cast[payload]("wrong", nil); err == nil {
		t.Error("expected type mismatch error")
	}
	sentinel := errors.New("upstream")
	if _, err := Cast[payload](nil, sentinel); !errors.Is(err, sentinel) {
		t.Errorf("expected upstream error, got %v", err)
	}
}
