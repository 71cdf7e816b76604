// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package events is the in-process bus carrying WebSub lifecycle events from
producers (the receiver and the hub client) to consumers (the tracker).

The set of events is closed: subscribe, unsubscribe, denied, feed and error.
Each has a concrete payload type implementing Event, so consumers switch on
the type instead of inspecting loosely typed maps.

	bus, _ := events.NewBus(events.DefaultBusConfig(), logging.NewWatermillLogger())
	bus.Handle(events.KindFeed, "tracker", func(ctx context.Context, e events.Event) error {
		feed := e.(events.Feed)
		...
	})
	go bus.Run(ctx)
	_ = bus.Emit(ctx, events.Feed{Topic: topic, Body: body})

Transport is a Watermill gochannel pub/sub with one topic per kind. Emit
returns as soon as the message is handed to the pub/sub. Handler errors and
panics are logged and the message is acknowledged.
*/
package events
