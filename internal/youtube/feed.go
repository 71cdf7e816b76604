// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package youtube

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FeedURL is the topic prefix YouTube publishes channel feeds under.
const FeedURL = "https://www.youtube.com/xml/feeds/videos.xml"

// channelIDLength is the length of a "UC..." channel ID.
const channelIDLength = 24

// ErrNoEntry is returned for feed documents without an entry.
var ErrNoEntry = errors.New("feed has no entry")

// Entry is the part of a pushed Atom entry the tracker needs.
type Entry struct {
	VideoID   string
	ChannelID string
	Title     string
	Published time.Time
	Updated   time.Time
	// Deleted is set for at:deleted-entry notifications; only VideoID is
	// filled in that case.
	Deleted bool
}

type atomFeed struct {
	XMLName xml.Name         `xml:"feed"`
	Entries []atomEntry      `xml:"entry"`
	Deleted []atomDeletedRef `xml:"deleted-entry"`
}

type atomEntry struct {
	VideoID   string    `xml:"videoId"`
	ChannelID string    `xml:"channelId"`
	Title     string    `xml:"title"`
	Published time.Time `xml:"published"`
	Updated   time.Time `xml:"updated"`
}

type atomDeletedRef struct {
	Ref string `xml:"ref,attr"`
}

// ParseFeed decodes the first entry of a pushed feed document.
func ParseFeed(data []byte) (*Entry, error) {
	var feed atomFeed
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	if len(feed.Entries) > 0 {
		e := feed.Entries[0]
		if e.VideoID == "" {
			return nil, errors.New("feed entry has no yt:videoId")
		}
		return &Entry{
			VideoID:   e.VideoID,
			ChannelID: e.ChannelID,
			Title:     e.Title,
			Published: e.Published,
			Updated:   e.Updated,
		}, nil
	}

	if len(feed.Deleted) > 0 {
		return &Entry{
			VideoID: strings.TrimPrefix(feed.Deleted[0].Ref, "yt:video:"),
			Deleted: true,
		}, nil
	}

	return nil, ErrNoEntry
}

// TopicForChannel returns the WebSub topic URL of a channel's upload feed.
func TopicForChannel(channelID string) string {
	return FeedURL + "?channel_id=" + url.QueryEscape(channelID)
}

// ChannelIDFromTopic extracts the channel ID from a topic URL: the
// channel_id query parameter when present, otherwise its last 24 characters.
func ChannelIDFromTopic(topic string) string {
	if u, err := url.Parse(topic); err == nil {
		if id := u.Query().Get("channel_id"); id != "" {
			return id
		}
	}
	if len(topic) <= channelIDLength {
		return topic
	}
	return topic[len(topic)-channelIDLength:]
}
