// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

// Package logging provides zerolog-based structured logging for Hubbub.
//
// A single global logger is configured once at startup and shared by every
// package. JSON output is the default; console output is available for local
// development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("topic", topic).Msg("Subscription confirmed")
//	logging.Err(err).Msg("Hub request failed")
//	logging.Ctx(ctx).Warn().Msg("Invalid signature")
//
// # Adapters
//
// Two libraries in the stack expect their own logger interfaces:
//   - NewSlogLogger returns a *slog.Logger for sutureslog (supervisor events)
//   - NewWatermillLogger returns a watermill.LoggerAdapter for the event bus
//
// Both write through the same zerolog instance, so all output shares one format.
//
// # Environment
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
package logging
