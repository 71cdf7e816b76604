// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package events

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/hubbub/internal/logging"
)

// startBus runs a bus with the given registrations until the test ends.
func startBus(t *testing.T, register func(b *Bus)) *Bus {
	t.Helper()

	b, err := NewBus(DefaultBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	register(b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := b.Run(ctx); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	select {
	case <-b.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}

	t.Cleanup(func() {
		cancel()
		<-done
		_ = b.Close()
	})
	return b
}

func TestBus_DeliversTypedEvents(t *testing.T) {
	t.Parallel()

	feeds := make(chan Feed, 1)
	subs := make(chan Subscribe, 1)

	b := startBus(t, func(b *Bus) {
		b.Handle(KindFeed, "test", func(_ context.Context, e Event) error {
			feeds <- e.(Feed)
			return nil
		})
		b.Handle(KindSubscribe, "test", func(_ context.Context, e Event) error {
			subs <- e.(Subscribe)
			return nil
		})
	})

	ctx := context.Background()
	want := Feed{
		Topic:       "https://example.com/feed",
		Hub:         "https://hub.example.com/",
		CallbackURL: "http://cb.example.com/hubbub?topic=x",
		Body:        []byte("<feed/>"),
		Headers:     http.Header{"Content-Type": []string{"application/atom+xml"}},
	}
	if err := b.Emit(ctx, want); err != nil {
		t.Fatalf("Emit(feed) error = %v", err)
	}
	if err := b.Emit(ctx, Subscribe{Topic: want.Topic, LeaseSeconds: 432000}); err != nil {
		t.Fatalf("Emit(subscribe) error = %v", err)
	}

	select {
	case got := <-feeds:
		if got.Topic != want.Topic || string(got.Body) != "<feed/>" || got.CallbackURL != want.CallbackURL {
			t.Errorf("feed = %+v, want %+v", got, want)
		}
		if got.Headers.Get("Content-Type") != "application/atom+xml" {
			t.Errorf("headers = %v", got.Headers)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("feed event not delivered")
	}

	select {
	case got := <-subs:
		if got.LeaseSeconds != 432000 || got.Topic != want.Topic {
			t.Errorf("subscribe = %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("subscribe event not delivered")
	}
}

func TestBus_FailingConsumerIsIsolated(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []string
	delivered := make(chan struct{}, 4)

	b := startBus(t, func(b *Bus) {
		b.Handle(KindDenied, "panics", func(_ context.Context, e Event) error {
			if e.(Denied).Topic == "panic" {
				panic("consumer exploded")
			}
			return errors.New("always fails")
		})
		b.Handle(KindDenied, "records", func(_ context.Context, e Event) error {
			mu.Lock()
			seen = append(seen, e.(Denied).Topic)
			mu.Unlock()
			delivered <- struct{}{}
			return nil
		})
	})

	ctx := context.Background()
	for _, topic := range []string{"panic", "error"} {
		if err := b.Emit(ctx, Denied{Topic: topic, Error: "invalid response status 500"}); err != nil {
			t.Fatalf("Emit() error = %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case <-delivered:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of 2 events reached the healthy consumer", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Errorf("healthy consumer saw %v, want both events", seen)
	}
}

func TestBus_PropagatesCorrelationID(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	b := startBus(t, func(b *Bus) {
		b.Handle(KindError, "test", func(ctx context.Context, _ Event) error {
			got <- logging.CorrelationIDFromContext(ctx)
			return nil
		})
	})

	ctx := logging.ContextWithCorrelationID(context.Background(), "abcd1234")
	if err := b.Emit(ctx, Error{Message: "listen failed"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	select {
	case id := <-got:
		if id != "abcd1234" {
			t.Errorf("correlation ID = %q, want abcd1234", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error event not delivered")
	}
}

func TestBus_EmitBeforeRunRespectsContext(t *testing.T) {
	t.Parallel()

	b, err := NewBus(DefaultBusConfig(), nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := b.Emit(ctx, Unsubscribe{Topic: "t"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Emit() error = %v, want deadline exceeded", err)
	}
}
