// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package services

import (
	"context"
	"fmt"
)

// RenewalManager matches the renewal scheduler lifecycle.
type RenewalManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// RenewalService adapts the renewal scheduler's Start/Stop to Serve.
type RenewalService struct {
	manager RenewalManager
	name    string
}

// NewRenewalService creates the wrapper.
func NewRenewalService(manager RenewalManager) *RenewalService {
	return &RenewalService{manager: manager, name: "renewal-scheduler"}
}

// Serve starts the scheduler, waits for cancellation, then stops it. A
// failed Start is returned so suture restarts with backoff.
func (s *RenewalService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("renewal scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("renewal scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *RenewalService) String() string {
	return s.name
}
