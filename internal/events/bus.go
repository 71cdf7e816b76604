// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/metrics"
)

const (
	metadataKind          = "kind"
	metadataCorrelationID = "correlation_id"
)

// HandlerFunc consumes one decoded event.
type HandlerFunc func(ctx context.Context, e Event) error

// Emitter is what producers depend on.
type Emitter interface {
	Emit(ctx context.Context, e Event) error
}

// BusConfig holds event bus settings.
type BusConfig struct {
	// OutputBuffer is the per-subscriber channel buffer.
	OutputBuffer int64
	// HandlerTimeout bounds the work a single consumer may do per event.
	HandlerTimeout time.Duration
	// CloseTimeout is how long Close waits for in-flight handlers.
	CloseTimeout time.Duration
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		OutputBuffer:   256,
		HandlerTimeout: 2 * time.Minute,
		CloseTimeout:   30 * time.Second,
	}
}

// Bus is the in-process event bus: a watermill gochannel pub/sub with a
// router dispatching each kind to its registered consumers. Publishing does
// not wait for consumers, and a failing or panicking consumer is logged and
// acknowledged so it never affects the producer or other consumers.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

var _ Emitter = (*Bus)(nil)

// NewBus creates a bus. Register consumers with Handle before calling Run.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = logging.NewWatermillLogger()
	}
	if cfg.OutputBuffer <= 0 {
		cfg.OutputBuffer = DefaultBusConfig().OutputBuffer
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultBusConfig().CloseTimeout
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.OutputBuffer,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	b := &Bus{pubsub: pubsub, router: router, logger: logger}

	// Outer to inner: failures are logged and acked, panics become errors,
	// and each handler call gets a deadline.
	router.AddMiddleware(b.ackFailures, middleware.Recoverer)
	if cfg.HandlerTimeout > 0 {
		router.AddMiddleware(middleware.Timeout(cfg.HandlerTimeout))
	}

	return b, nil
}

// Handle registers a consumer for one kind. name must be unique per kind.
func (b *Bus) Handle(kind Kind, name string, fn HandlerFunc) {
	handlerName := string(kind) + "." + name
	b.router.AddConsumerHandler(handlerName, kind.Topic(), b.pubsub, func(msg *message.Message) error {
		e, err := Unmarshal(kind, msg.Payload)
		if err != nil {
			metrics.RecordEventHandled(string(kind), name, err)
			return err
		}

		ctx := msg.Context()
		if id := msg.Metadata.Get(metadataCorrelationID); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}

		err = fn(ctx, e)
		metrics.RecordEventHandled(string(kind), name, err)
		return err
	})
}

// Emit publishes an event. It waits only for the router to be running,
// never for consumers.
func (b *Bus) Emit(ctx context.Context, e Event) error {
	payload, err := Marshal(e)
	if err != nil {
		return err
	}

	select {
	case <-b.router.Running():
	case <-ctx.Done():
		return fmt.Errorf("emit %s: %w", e.Kind(), ctx.Err())
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataKind, string(e.Kind()))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataCorrelationID, id)
	}

	if err := b.pubsub.Publish(e.Kind().Topic(), msg); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Kind(), err)
	}
	metrics.EventsPublished.WithLabelValues(string(e.Kind())).Inc()
	return nil
}

// Run starts dispatching and blocks until ctx is cancelled or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once the router dispatches messages.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Close stops the router and the underlying pub/sub.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return fmt.Errorf("close router: %w", err)
	}
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("close pubsub: %w", err)
	}
	return nil
}

// ackFailures logs a handler error and acknowledges the message. gochannel
// redelivers nacked messages immediately, which would loop forever on a
// permanent failure.
func (b *Bus) ackFailures(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			b.logger.Error("Event handler failed", err, watermill.LogFields{
				"message_uuid": msg.UUID,
				"kind":         msg.Metadata.Get(metadataKind),
			})
			return nil, nil
		}
		return produced, nil
	}
}
