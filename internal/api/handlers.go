// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/hubbub/internal/logging"
	"github.com/tomtom215/hubbub/internal/store"
	"github.com/tomtom215/hubbub/internal/validation"
	"github.com/tomtom215/hubbub/internal/youtube"
)

// ChannelStore is the read side of the channel table.
type ChannelStore interface {
	ListChannels(ctx context.Context) ([]*store.Channel, error)
	GetChannel(ctx context.Context, id string) (*store.Channel, error)
	Ping(ctx context.Context) error
}

// ChannelTracker registers new channels.
type ChannelTracker interface {
	Track(ctx context.Context, id, title string) (*store.Channel, error)
}

// HubRequester sends fire-and-forget hub requests.
type HubRequester interface {
	Subscribe(ctx context.Context, topic, hub string)
	Unsubscribe(ctx context.Context, topic, hub string)
}

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the status API.
type Handler struct {
	store     ChannelStore
	tracker   ChannelTracker
	hub       HubRequester
	hubURL    string
	checks    map[string]ReadinessCheck
	startTime time.Time
}

// NewHandler creates the status API handler.
func NewHandler(st ChannelStore, tracker ChannelTracker, hub HubRequester, hubURL string) *Handler {
	return &Handler{
		store:     st,
		tracker:   tracker,
		hub:       hub,
		hubURL:    hubURL,
		checks:    map[string]ReadinessCheck{"store": st.Ping},
		startTime: time.Now(),
	}
}

// AddReadinessCheck registers a named dependency for /health/ready.
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// Hello answers the root path.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("hello world"))
}

// Status returns every tracked channel keyed by channel ID.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	channels, ok := h.listChannels(w, r)
	if !ok {
		return
	}
	byID := make(map[string]*store.Channel, len(channels))
	for _, ch := range channels {
		byID[ch.ID] = ch
	}
	writeJSON(w, http.StatusOK, byID)
}

// Active returns the channels with a live subscription.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	h.filtered(w, r, true)
}

// Inactive returns the channels without a live subscription.
func (h *Handler) Inactive(w http.ResponseWriter, r *http.Request) {
	h.filtered(w, r, false)
}

func (h *Handler) filtered(w http.ResponseWriter, r *http.Request, subscribed bool) {
	channels, ok := h.listChannels(w, r)
	if !ok {
		return
	}
	out := make([]*store.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Subscribed == subscribed {
			out = append(out, ch)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listChannels(w http.ResponseWriter, r *http.Request) ([]*store.Channel, bool) {
	channels, err := h.store.ListChannels(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "Failed to list channels", err)
		return nil, false
	}
	return channels, true
}

// addChannelRequest is the body of POST /api/channels.
type addChannelRequest struct {
	ID    string `json:"id" validate:"required,channelid"`
	Title string `json:"title" validate:"max=200"`
}

// AddChannel tracks a channel and requests a subscription for it. The
// channel turns active once the hub verifies the intent.
func (h *Handler) AddChannel(w http.ResponseWriter, r *http.Request) {
	var req addChannelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ch, err := h.tracker.Track(r.Context(), req.ID, req.Title)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "Failed to track channel", err)
		return
	}

	h.hub.Subscribe(r.Context(), youtube.TopicForChannel(req.ID), h.hubURL)
	logging.Ctx(r.Context()).Info().Str("channel_id", req.ID).Msg("Subscription requested")

	respondSuccess(w, r, http.StatusAccepted, ch)
}

// RemoveChannel asks the hub to end the subscription. The stored state
// changes when the hub confirms through the callback.
func (h *Handler) RemoveChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validation.IsChannelID(id) {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a YouTube channel ID", nil)
		return
	}

	ch, err := h.store.GetChannel(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Channel is not tracked", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "STORE_ERROR", "Failed to load channel", err)
		return
	}

	h.hub.Unsubscribe(r.Context(), youtube.TopicForChannel(id), h.hubURL)
	logging.Ctx(r.Context()).Info().Str("channel_id", id).Msg("Unsubscription requested")

	respondSuccess(w, r, http.StatusAccepted, ch)
}
