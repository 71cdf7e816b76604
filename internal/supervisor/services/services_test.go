// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hubbub/internal/events"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*EventBusService)(nil)
	_ suture.Service = (*RenewalService)(nil)
	_ suture.Service = (*StoreGCService)(nil)
)

type mockHTTPServer struct {
	listenErr     error
	stopCh        chan struct{}
	shutdownCount atomic.Int32
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	if m.shutdownCount.Add(1) == 1 {
		close(m.stopCh)
	}
	return nil
}

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

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	emitter := &recordingEmitter{}
	svc := NewHTTPServerService(server, ":8080", time.Second, emitter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.shutdownCount.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", server.shutdownCount.Load())
	}
	if len(emitter.events) != 0 {
		t.Errorf("unexpected events: %v", emitter.events)
	}
}

func TestHTTPServerService_ListenFailureEmitsError(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	server.listenErr = errors.New("listen tcp :8080: bind: address already in use")
	emitter := &recordingEmitter{}
	svc := NewHTTPServerService(server, ":8080", time.Second, emitter)

	err := svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "address already in use") {
		t.Fatalf("Serve() error = %v", err)
	}

	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if len(emitter.events) != 1 {
		t.Fatalf("events = %v, want one error event", emitter.events)
	}
	e, ok := emitter.events[0].(events.Error)
	if !ok {
		t.Fatalf("event = %T, want events.Error", emitter.events[0])
	}
	if !strings.HasPrefix(e.Message, "Failed to start listening on :8080") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestHTTPServerService_NilEmitter(t *testing.T) {
	t.Parallel()

	server := newMockHTTPServer()
	server.listenErr = errors.New("boom")
	svc := NewHTTPServerService(server, ":1", 0, nil)

	if err := svc.Serve(context.Background()); err == nil {
		t.Error("Serve() should fail")
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}

type mockBus struct {
	err error
}

func (m *mockBus) Run(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return nil
}

func TestEventBusService(t *testing.T) {
	t.Parallel()

	t.Run("cancel is a clean stop", func(t *testing.T) {
		t.Parallel()
		svc := NewEventBusService(&mockBus{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	})

	t.Run("run error is returned", func(t *testing.T) {
		t.Parallel()
		svc := NewEventBusService(&mockBus{err: errors.New("router closed")})
		err := svc.Serve(context.Background())
		if err == nil || !strings.Contains(err.Error(), "router closed") {
			t.Errorf("Serve() error = %v", err)
		}
	})
}

func TestEventBusService_RealBus(t *testing.T) {
	t.Parallel()

	bus, err := events.NewBus(events.DefaultBusConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer bus.Close()

	got := make(chan string, 1)
	bus.Handle(events.KindError, "test", func(_ context.Context, e events.Event) error {
		got <- e.(events.Error).Message
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewEventBusService(bus).Serve(ctx) }()

	if err := bus.Emit(ctx, events.Error{Message: "hello"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	select {
	case msg := <-got:
		if msg != "hello" {
			t.Errorf("message = %q", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("bus service did not stop")
	}
}

type mockRenewal struct {
	startErr error
	started  atomic.Int32
	stopped  atomic.Int32
}

func (m *mockRenewal) Start(context.Context) error {
	m.started.Add(1)
	return m.startErr
}

func (m *mockRenewal) Stop() error {
	m.stopped.Add(1)
	return nil
}

func TestRenewalService(t *testing.T) {
	t.Parallel()

	m := &mockRenewal{}
	svc := NewRenewalService(m)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v", err)
	}
	if m.started.Load() != 1 || m.stopped.Load() != 1 {
		t.Errorf("started=%d stopped=%d, want 1/1", m.started.Load(), m.stopped.Load())
	}
}

func TestRenewalService_StartFailure(t *testing.T) {
	t.Parallel()

	m := &mockRenewal{startErr: errors.New("already running")}
	err := NewRenewalService(m).Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Errorf("Serve() error = %v", err)
	}
	if m.stopped.Load() != 0 {
		t.Error("Stop called after failed Start")
	}
}

type mockGC struct {
	calls atomic.Int32
	err   error
}

func (m *mockGC) RunGC(ratio float64) error {
	if ratio != 0.5 {
		return errors.New("unexpected ratio")
	}
	m.calls.Add(1)
	return m.err
}

func TestStoreGCService(t *testing.T) {
	t.Parallel()

	for _, gcErr := range []error{nil, errors.New("value log busy")} {
		gc := &mockGC{err: gcErr}
		svc := NewStoreGCService(gc, 10*time.Millisecond, 0)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		deadline := time.Now().Add(2 * time.Second)
		for gc.calls.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
		if gc.calls.Load() < 2 {
			t.Errorf("GC ran %d times, want at least 2 (err=%v)", gc.calls.Load(), gcErr)
		}
	}
}
