// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

// Package renewal keeps hub subscriptions alive.
//
// Every Interval the scheduler walks the channel table. A subscribed channel
// whose lease ends within RenewBefore gets a fresh subscribe request, and a
// channel whose lease has already run out is marked unsubscribed. Requests
// are spread out by Stagger per channel position so a large table does not
// hit the hub in one burst.
package renewal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/metrics"
	"github.com/tomtom215/hubbub/internal/store"
	"github.com/tomtom215/hubbub/internal/youtube"
)

// errLeaseRefreshed aborts an expiry write when the stored lease is current.
var errLeaseRefreshed = errors.New("lease refreshed")

// Subscriber sends subscribe requests. *websub.Client implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, hub string)
}

// Config holds scheduler settings.
type Config struct {
	// HubURL receives every renewal.
	HubURL string
	// Interval between sweeps (default: 1 hour)
	Interval time.Duration
	// RenewBefore is how close to lease end a renewal is sent (default: 24 hours)
	RenewBefore time.Duration
	// Stagger is the delay added per channel position (default: 1 second)
	Stagger time.Duration
	// SubscribeOnStart subscribes every tracked channel when Start is called.
	SubscribeOnStart bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Hour,
		RenewBefore: 24 * time.Hour,
		Stagger:     time.Second,
	}
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Checked    int
	Subscribed int
	Renewed    int
	Expired    int
	Errors     int
}

// Scheduler runs the renewal sweep.
type Scheduler struct {
	store  *store.Store
	sub    Subscriber
	config Config
	logger zerolog.Logger

	// Runtime state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	timersMu sync.Mutex
	timers   map[*time.Timer]struct{}
}

// NewScheduler creates a scheduler.
func NewScheduler(st *store.Store, sub Subscriber, config Config) *Scheduler {
	def := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.RenewBefore <= 0 {
		config.RenewBefore = def.RenewBefore
	}
	if config.Stagger < 0 {
		config.Stagger = 0
	}

	return &Scheduler{
		store:  st,
		sub:    sub,
		config: config,
		logger: logging.WithComponent("renewal-scheduler"),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Start begins the sweep loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("renew_before", s.config.RenewBefore).
		Dur("stagger", s.config.Stagger).
		Msg("Starting renewal scheduler")

	if s.config.SubscribeOnStart {
		if _, err := s.SubscribeAll(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Initial subscription failed")
		}
	}

	go s.run(ctx)
	return nil
}

// Stop stops the loop, waits for it to exit and cancels pending renewals.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		s.logger.Info().Msg("Stopping renewal scheduler...")
		close(s.stopCh)
		<-s.doneCh

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}

	if n := s.cancelPending(); n > 0 {
		s.logger.Info().Int("cancelled", n).Msg("Cancelled pending renewals")
	}
	return nil
}

// IsRunning returns whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Pending returns the number of scheduled requests not yet sent.
func (s *Scheduler) Pending() int {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.Sweep(ctx, now)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep checks every channel against now. Channels are visited in
// ascending ID order and a failure on one never stops the others.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) SweepResult {
	start := time.Now()
	var res SweepResult

	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		metrics.SweepErrors.Inc()
		s.logger.Error().Err(err).Msg("Failed to list channels")
		res.Errors++
		return res
	}

	for i, ch := range channels {
		res.Checked++
		renewed, expired, err := s.checkChannel(ctx, i, ch, now)
		if renewed {
			res.Renewed++
		}
		if expired {
			res.Expired++
		}
		if err != nil {
			res.Errors++
			metrics.SweepErrors.Inc()
			s.logger.Error().Err(err).Str("channel_id", ch.ID).Msg("Error checking subscription")
		}
		if ch.Subscribed && !expired {
			res.Subscribed++
		}
	}

	metrics.RecordSweep(time.Since(start), res.Subscribed)
	s.logger.Debug().
		Int("checked", res.Checked).
		Int("renewed", res.Renewed).
		Int("expired", res.Expired).
		Int("errors", res.Errors).
		Msg("Renewal sweep complete")
	return res
}

// checkChannel applies the renew and expiry rules to one channel. The two
// checks are independent: an expired channel is also renewed.
func (s *Scheduler) checkChannel(ctx context.Context, index int, ch *store.Channel, now time.Time) (renewed, expired bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if !ch.Subscribed {
		return false, false, nil
	}

	elapsed := now.Sub(ch.SubscribeDate)
	lease := ch.Lease()

	if elapsed+s.config.RenewBefore > lease {
		s.logger.Info().Str("channel_id", ch.ID).Dur("elapsed", elapsed).Dur("lease", lease).Msg("Renewing subscription")
		s.schedule(ctx, time.Duration(index)*s.config.Stagger, ch.ID)
		metrics.RenewalsScheduled.Inc()
		renewed = true
	}

	if elapsed > lease {
		// The listing may be stale; a confirmation can land mid-sweep.
		_, err := s.store.Update(ctx, ch.ID, func(c *store.Channel) error {
			if !c.Subscribed || now.Sub(c.SubscribeDate) <= c.Lease() {
				return errLeaseRefreshed
			}
			c.Subscribed = false
			return nil
		})
		switch {
		case errors.Is(err, errLeaseRefreshed):
			s.logger.Debug().Str("channel_id", ch.ID).Msg("Subscription refreshed during sweep")
			return renewed, false, nil
		case err != nil:
			return renewed, false, fmt.Errorf("mark expired: %w", err)
		}
		s.logger.Info().Str("channel_id", ch.ID).Msg("Subscription expired")
		metrics.LeasesExpired.Inc()
		expired = true
	}

	return renewed, expired, nil
}

// SubscribeAll schedules a subscribe request for every tracked channel,
// staggered by position. It returns how many were scheduled.
func (s *Scheduler) SubscribeAll(ctx context.Context) (int, error) {
	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		return 0, fmt.Errorf("list channels: %w", err)
	}
	for i, ch := range channels {
		s.schedule(ctx, time.Duration(i)*s.config.Stagger, ch.ID)
	}
	s.logger.Info().Int("channels", len(channels)).Msg("Subscribing tracked channels")
	return len(channels), nil
}

// schedule sends a subscribe request for channelID after delay. The request
// outlives ctx cancellation but not Stop.
func (s *Scheduler) schedule(ctx context.Context, delay time.Duration, channelID string) {
	ctx = context.WithoutCancel(ctx)
	topic := youtube.TopicForChannel(channelID)

	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.timersMu.Lock()
		delete(s.timers, timer)
		s.timersMu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				metrics.SweepErrors.Inc()
				s.logger.Error().Interface("panic", r).Str("channel_id", channelID).Msg("Error renewing subscription")
			}
		}()
		s.sub.Subscribe(ctx, topic, s.config.HubURL)
	})
	s.timers[timer] = struct{}{}
}

func (s *Scheduler) cancelPending() int {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	n := 0
	for t := range s.timers {
		if t.Stop() {
			n++
		}
		delete(s.timers, t)
	}
	return n
}
