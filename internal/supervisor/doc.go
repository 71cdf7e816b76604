// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package supervisor runs hubbub's long-lived services under suture v4.

The tree has three layers so a crash in one does not take down the others:

	RootSupervisor ("hubbub")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventBusService
	│   └── RenewalService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog into the zerolog-backed slog logger.

Wrappers for each component live in the services subpackage.
*/
package supervisor
