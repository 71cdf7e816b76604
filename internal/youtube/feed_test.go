// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package youtube

import (
	"errors"
	"testing"
	"time"
)

const sampleFeed = `<?xml version='1.0' encoding='UTF-8'?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <link rel="hub" href="https://pubsubhubbub.appspot.com"/>
  <link rel="self" href="https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC_x5XG1OV2P6uZZ5FSM9Ttw"/>
  <title>YouTube video feed</title>
  <updated>2026-03-06T21:40:57.000000000+00:00</updated>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <yt:channelId>UC_x5XG1OV2P6uZZ5FSM9Ttw</yt:channelId>
    <title>Release notes, episode 12</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <author>
      <name>Google for Developers</name>
      <uri>https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw</uri>
    </author>
    <published>2026-03-06T21:40:57+00:00</published>
    <updated>2026-03-06T21:41:02.552394234+00:00</updated>
  </entry>
</feed>`

const deletedFeed = `<?xml version='1.0' encoding='UTF-8'?>
<feed xmlns:at="http://purl.org/atompub/tombstones/1.0" xmlns="http://www.w3.org/2005/Atom">
  <at:deleted-entry ref="yt:video:dQw4w9WgXcQ" when="2026-03-07T10:00:00+00:00">
    <link href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
  </at:deleted-entry>
</feed>`

func TestParseFeed(t *testing.T) {
	t.Parallel()

	e, err := ParseFeed([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("ParseFeed() error = %v", err)
	}
	if e.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q", e.VideoID)
	}
	if e.ChannelID != "UC_x5XG1OV2P6uZZ5FSM9Ttw" {
		t.Errorf("ChannelID = %q", e.ChannelID)
	}
	if e.Title != "Release notes, episode 12" {
		t.Errorf("Title = %q", e.Title)
	}
	if want := time.Date(2026, 3, 6, 21, 40, 57, 0, time.UTC); !e.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", e.Published, want)
	}
	if e.Updated.Before(e.Published) {
		t.Errorf("Updated = %v should not precede Published", e.Updated)
	}
	if e.Deleted {
		t.Error("Deleted should be false")
	}
}

func TestParseFeed_DeletedEntry(t *testing.T) {
	t.Parallel()

	e, err := ParseFeed([]byte(deletedFeed))
	if err != nil {
		t.Fatalf("ParseFeed() error = %v", err)
	}
	if !e.Deleted || e.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("ParseFeed() = %+v, want deleted dQw4w9WgXcQ", e)
	}
}

func TestParseFeed_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"not xml", "hello", nil},
		{"empty feed", `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, ErrNoEntry},
		{"entry without video id", `<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>x</title></entry></feed>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFeed([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestTopicForChannel(t *testing.T) {
	t.Parallel()

	got := TopicForChannel("UC_x5XG1OV2P6uZZ5FSM9Ttw")
	want := "https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC_x5XG1OV2P6uZZ5FSM9Ttw"
	if got != want {
		t.Errorf("TopicForChannel() = %q, want %q", got, want)
	}
}

func TestChannelIDFromTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic string
		want  string
	}{
		{TopicForChannel("UC_x5XG1OV2P6uZZ5FSM9Ttw"), "UC_x5XG1OV2P6uZZ5FSM9Ttw"},
		{"https://www.youtube.com/xml/feeds/videos.xml?channel_id=UCBR8-60-B28hp2BmDPdntcQ&x=1", "UCBR8-60-B28hp2BmDPdntcQ"},
		{"https://example.com/feeds/UCBR8-60-B28hp2BmDPdntcQ", "UCBR8-60-B28hp2BmDPdntcQ"},
		{"short", "short"},
	}
	for _, tt := range tests {
		if got := ChannelIDFromTopic(tt.topic); got != tt.want {
			t.Errorf("ChannelIDFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
