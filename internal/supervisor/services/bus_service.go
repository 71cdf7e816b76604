// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package services

import (
	"context"
	"fmt"
)

// EventBusRunner matches the *events.Bus run loop.
type EventBusRunner interface {
	Run(ctx context.Context) error
}

// EventBusService runs the event bus router under supervision.
type EventBusService struct {
	bus  EventBusRunner
	name string
}

// NewEventBusService creates the wrapper.
func NewEventBusService(bus EventBusRunner) *EventBusService {
	return &EventBusService{bus: bus, name: "event-bus"}
}

// Serve implements suture.Service. Run returns nil when ctx is canceled,
// which is reported as ctx.Err() so suture does not restart it.
func (s *EventBusService) Serve(ctx context.Context) error {
	if err := s.bus.Run(ctx); err != nil {
		return fmt.Errorf("event bus failed: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("event bus stopped unexpectedly")
}

// String implements fmt.Stringer.
func (s *EventBusService) String() string {
	return s.name
}
