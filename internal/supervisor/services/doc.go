// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package services adapts hubbub components to suture's Serve pattern.

	type Service interface {
	    Serve(ctx context.Context) error
	}

Each wrapper translates one lifecycle style:

  - HTTPServerService: ListenAndServe/Shutdown
  - EventBusService: blocking Run(ctx)
  - RenewalService: Start(ctx)/Stop()
  - StoreGCService: a ticker loop around one maintenance call

Every wrapper implements fmt.Stringer so suture logs a readable name.
*/
package services
