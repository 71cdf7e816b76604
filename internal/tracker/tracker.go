// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

// Package tracker keeps the channel table in step with hub events and
// stores every video announced through a feed notification.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/hubbub/internal/events"
	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/metrics"
	"github.com/tomtom215/hubbub/internal/store"
	"github.com/tomtom215/hubbub/internal/youtube"
)

// handlerName is the consumer name registered on the bus for every kind.
const handlerName = "tracker"

// VideoFetcher loads video metadata. *youtube.Client implements it.
type VideoFetcher interface {
	GetVideo(ctx context.Context, id string) (*youtube.Video, error)
}

// Registrar is the part of the event bus the tracker subscribes through.
type Registrar interface {
	Handle(kind events.Kind, name string, fn events.HandlerFunc)
}

// Tracker consumes hub events.
type Tracker struct {
	store  *store.Store
	videos VideoFetcher
	now    func() time.Time
}

// New creates a tracker. videos may be nil, in which case videos are stored
// with only the fields carried by the feed entry.
func New(st *store.Store, videos VideoFetcher) *Tracker {
	return &Tracker{store: st, videos: videos, now: time.Now}
}

// Register subscribes the tracker to every event kind.
func (t *Tracker) Register(r Registrar) {
	r.Handle(events.KindSubscribe, handlerName, t.handleSubscribe)
	r.Handle(events.KindUnsubscribe, handlerName, t.handleUnsubscribe)
	r.Handle(events.KindDenied, handlerName, t.handleDenied)
	r.Handle(events.KindFeed, handlerName, t.handleFeed)
	r.Handle(events.KindError, handlerName, t.handleError)
}

// Track starts tracking a channel. An already tracked channel keeps its
// subscription state; only the title is refreshed.
func (t *Tracker) Track(ctx context.Context, id, title string) (*store.Channel, error) {
	// A second pass covers a record created between the update and insert.
	for attempt := 0; attempt < 2; attempt++ {
		ch, err := t.store.Update(ctx, id, func(ch *store.Channel) error {
			if title != "" {
				ch.Title = title
			}
			return nil
		})
		if err == nil {
			return ch, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("track channel %s: %w", id, err)
		}

		ch = &store.Channel{ID: id, Title: title}
		inserted, err := t.store.InsertChannelIfAbsent(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("track channel %s: %w", id, err)
		}
		if inserted {
			logging.Ctx(ctx).Info().Str("channel_id", id).Str("title", title).Msg("Tracking channel")
			return ch, nil
		}
	}
	return nil, fmt.Errorf("track channel %s: record changed concurrently", id)
}

func (t *Tracker) handleSubscribe(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.Subscribe)
	if !ok {
		return unexpected(e)
	}
	id := youtube.ChannelIDFromTopic(ev.Topic)
	logger := logging.Ctx(ctx).With().Str("channel_id", id).Str("topic", ev.Topic).Logger()
	logger.Info().Int64("lease", ev.LeaseSeconds).Msg("Subscribe")

	now := t.now()
	_, err := t.store.Update(ctx, id, func(ch *store.Channel) error {
		ch.LeaseMS = ev.LeaseSeconds * 1000
		ch.Subscribed = true
		ch.SubscribeDate = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn().Msg("Subscribe confirmed for untracked channel")
		return nil
	}
	return err
}

func (t *Tracker) handleUnsubscribe(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.Unsubscribe)
	if !ok {
		return unexpected(e)
	}
	id := youtube.ChannelIDFromTopic(ev.Topic)
	logging.Ctx(ctx).Info().Str("channel_id", id).Str("topic", ev.Topic).Msg("Unsubscribe")

	_, err := t.store.Update(ctx, id, func(ch *store.Channel) error {
		ch.Subscribed = false
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (t *Tracker) handleDenied(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.Denied)
	if !ok {
		return unexpected(e)
	}
	logging.Ctx(ctx).Info().
		Str("topic", ev.Topic).
		Str("hub", ev.Hub).
		Str("error", ev.Error).
		Msg("Denied")
	return nil
}

func (t *Tracker) handleError(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.Error)
	if !ok {
		return unexpected(e)
	}
	logging.Ctx(ctx).Error().Str("stack", ev.Stack).Msg(ev.Message)
	return nil
}

func (t *Tracker) handleFeed(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.Feed)
	if !ok {
		return unexpected(e)
	}
	entry, err := youtube.ParseFeed(ev.Body)
	if err != nil {
		return fmt.Errorf("parse feed for %s: %w", ev.Topic, err)
	}

	logger := logging.Ctx(ctx).With().
		Str("video_id", entry.VideoID).
		Str("channel_id", entry.ChannelID).
		Logger()

	if entry.Deleted {
		logger.Info().Msg("Video deleted")
		return nil
	}
	logger.Info().
		Str("title", entry.Title).
		Time("published", entry.Published).
		Time("updated", entry.Updated).
		Msg("Video feed")

	now := t.now()
	_, err = t.store.Update(ctx, entry.ChannelID, func(ch *store.Channel) error {
		ch.MsgCount++
		ch.LastMsg = now
		ch.LastMsgVideo = entry.VideoID
		return nil
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("update channel %s: %w", entry.ChannelID, err)
	}

	// Stored documents are never replaced, so a known video costs no API call.
	if _, err := t.store.GetVideo(ctx, entry.VideoID); err == nil {
		logger.Debug().Msg("Video already stored")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load video %s: %w", entry.VideoID, err)
	}

	video, err := t.buildVideo(ctx, entry, now)
	if err != nil {
		return err
	}
	inserted, err := t.store.InsertVideoIfAbsent(ctx, video)
	if err != nil {
		return fmt.Errorf("store video %s: %w", video.ID, err)
	}
	if inserted {
		metrics.VideosInserted.Inc()
		logger.Info().Bool("live", video.Live).Msg("Video stored")
	}
	return nil
}

// buildVideo assembles the stored document, enriched from the Data API when
// a fetcher is configured.
func (t *Tracker) buildVideo(ctx context.Context, entry *youtube.Entry, now time.Time) (*store.Video, error) {
	v := &store.Video{
		ID:        entry.VideoID,
		ChannelID: entry.ChannelID,
		Title:     entry.Title,
		Published: entry.Published,
		Updated:   entry.Updated,
		DateAdded: now,
		PubSub:    true,
	}
	if t.videos == nil {
		return v, nil
	}

	info, err := t.videos.GetVideo(ctx, entry.VideoID)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", entry.VideoID, err)
	}
	if info.Snippet.Title != "" {
		v.Title = info.Snippet.Title
	}
	if v.ChannelID == "" {
		v.ChannelID = info.Snippet.ChannelID
	}
	v.Snippet = info.RawSnippet
	v.ContentDetails = info.RawContentDetails
	v.Status = info.RawStatus
	v.Live = info.IsLive()
	return v, nil
}

func unexpected(e events.Event) error {
	return fmt.Errorf("unexpected payload %T", e)
}
