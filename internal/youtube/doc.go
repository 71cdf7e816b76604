// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package youtube knows the YouTube side of the system: the shape of the Atom
documents the hub pushes, how channel IDs map to WebSub topics, and how to
fetch video metadata from the Data API v3.

Topics:

	TopicForChannel("UC_x5XG1OV2P6uZZ5FSM9Ttw")
	// https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC_x5XG1OV2P6uZZ5FSM9Ttw

ChannelIDFromTopic reverses the mapping. Client calls are rate limited
client-side and guarded by a circuit breaker so a quota outage does not
pile up goroutines in the event handlers.
*/
package youtube
