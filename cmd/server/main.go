// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/hubbub/internal/api"
	"github.com/tomtom215/hubbub/internal/config"
	"github.com/tomtom215/hubbub/internal/events"
	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/renewal"
	"github.com/tomtom215/hubbub/internal/store"
	"github.com/tomtom215/hubbub/internal/supervisor"
	"github.com/tomtom215/hubbub/internal/supervisor/services"
	"github.com/tomtom215/hubbub/internal/tracker"
	"github.com/tomtom215/hubbub/internal/websub"
	"github.com/tomtom215/hubbub/internal/youtube"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Hubbub stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential wiring
func run(cfg *config.Config) error {
	callbackURL := cfg.ResolvedCallbackURL()
	logging.Info().
		Str("callback_url", callbackURL).
		Str("hub_url", cfg.WebSub.HubURL).
		Int("channels", len(cfg.Channels)).
		Bool("signed", cfg.WebSub.Secret != "").
		Msg("Starting hubbub")

	st, err := store.Open(store.Config{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	bus, err := events.NewBus(events.DefaultBusConfig(), logging.NewWatermillLogger())
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Video enrichment is optional; without a key the feed entry is stored as-is.
	var videos tracker.VideoFetcher
	if cfg.YouTube.APIKey != "" {
		videos = youtube.NewClient(youtube.ClientConfig{
			BaseURL:        cfg.YouTube.BaseURL,
			APIKey:         cfg.YouTube.APIKey,
			Language:       cfg.YouTube.Language,
			Timeout:        cfg.YouTube.Timeout,
			RequestsPerSec: cfg.YouTube.RequestsPerSec,
			Burst:          cfg.YouTube.Burst,
		}, nil)
	} else {
		logging.Warn().Msg("YOUTUBE_KEY not set, videos are stored without API metadata")
	}

	trk := tracker.New(st, videos)
	trk.Register(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, id := range cfg.Channels {
		if _, err := trk.Track(ctx, id, ""); err != nil {
			return fmt.Errorf("track channel %s: %w", id, err)
		}
	}

	hubClient := websub.NewClient(websub.ClientConfig{
		CallbackURL:  callbackURL,
		Secret:       cfg.WebSub.Secret,
		LeaseSeconds: cfg.WebSub.LeaseSeconds,
		Headers:      cfg.WebSub.Headers,
		Timeout:      cfg.WebSub.RequestTimeout,
	}, bus, nil)
	// In-flight hub requests finish before the bus and store close.
	defer hubClient.Wait()

	receiver := websub.NewReceiver(websub.ReceiverConfig{
		Secret:         cfg.WebSub.Secret,
		MaxContentSize: cfg.WebSub.MaxContentSize,
		ErrorHandler:   api.ReceiverErrorHandler,
	}, bus)

	scheduler := renewal.NewScheduler(st, hubClient, renewal.Config{
		HubURL:           cfg.WebSub.HubURL,
		Interval:         cfg.Renewal.Interval,
		RenewBefore:      cfg.Renewal.RenewBefore,
		Stagger:          cfg.Renewal.Stagger,
		SubscribeOnStart: cfg.Renewal.SubscribeOnStart,
	})

	handler := api.NewHandler(st, trk, hubClient, cfg.WebSub.HubURL)
	handler.AddReadinessCheck("events", func(context.Context) error {
		select {
		case <-bus.Running():
			return nil
		default:
			return errors.New("event bus not running")
		}
	})

	var auth *api.BasicAuth
	if password := cfg.StatusPassword(); password != "" {
		auth, err = api.NewBasicAuth(cfg.Security.StatusUsername, password)
		if err != nil {
			return fmt.Errorf("configure status API auth: %w", err)
		}
	} else {
		logging.Warn().Msg("No status password or secret configured, status API disabled")
	}

	router := api.NewRouter(api.RouterConfig{
		CallbackPath: cfg.Server.CallbackPath,
		Auth:         auth,
		Middleware: &api.ChiMiddlewareConfig{
			CORSAllowedOrigins: cfg.Security.CORSOrigins,
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.Security.RateLimitReqs,
			RateLimitWindow:    cfg.Security.RateLimitWindow,
		},
	}, handler, receiver)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridges zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewStoreGCService(st, 10*time.Minute, 0.5))
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddMessagingService(services.NewRenewalService(scheduler))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, bus))
	logging.Info().Str("addr", addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
