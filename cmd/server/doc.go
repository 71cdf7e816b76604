// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package main is the entry point for the hubbub server.

Hubbub subscribes to YouTube channel Atom feeds through a WebSub hub, verifies
signed content notifications, and records every new video in a local badger
store. A status API reports which channels hold a live subscription.

# Application Architecture

Long-running components run under a suture v4 supervisor tree:

	RootSupervisor ("hubbub")
	├── DataSupervisor ("data-layer")
	│   └── Store value log GC
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event bus (watermill gochannel)
	│   └── Renewal scheduler
	└── APISupervisor ("api-layer")
	    └── HTTP server (hub callback, status API, health, metrics)

Startup order:

 1. Configuration: koanf defaults, optional YAML file, environment
 2. Logging: zerolog
 3. Store: badger on disk (STORE_PATH) or in memory
 4. Event bus and its consumers (the channel tracker)
 5. Hub client, callback receiver and optional YouTube Data API client
 6. Status API router and HTTP server
 7. Supervisor tree

# Configuration

Common environment variables:

	HOST               public hostname hubs call back to
	CALLBACK_URL       full callback URL, overrides HOST
	HTTP_PORT          listen port (default 1337)
	SECRET             master secret for hub.secret and X-Hub-Signature
	CHANNELS           comma-separated channel IDs to track
	YOUTUBE_KEY        YouTube Data API key; enables video enrichment
	STATUS_PASSWORD    status API password (defaults to SECRET)
	LOG_LEVEL          trace, debug, info, warn, error

# Signal Handling

SIGINT and SIGTERM cancel the tree. The HTTP server drains for up to 10s,
pending renewals are cancelled, in-flight hub requests finish, and the
store is closed last.
*/
package main
