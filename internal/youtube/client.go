// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hubbub/internal/breaker"
	"github.com/tomtom215/hubbub/internal/metrics"
)

// DefaultBaseURL is the Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// videoParts are the resource parts requested for every video.
const videoParts = "contentDetails,snippet,status"

// ErrVideoNotFound is returned when the API knows no video with the ID.
var ErrVideoNotFound = errors.New("video not found")

// ClientConfig configures the Data API client.
type ClientConfig struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration

	// RequestsPerSec and Burst shape outgoing calls.
	RequestsPerSec float64
	Burst          int
}

// Snippet holds the snippet fields the tracker reads.
type Snippet struct {
	PublishedAt          time.Time `json:"publishedAt"`
	ChannelID            string    `json:"channelId"`
	Title                string    `json:"title"`
	ChannelTitle         string    `json:"channelTitle"`
	LiveBroadcastContent string    `json:"liveBroadcastContent"`
}

// Status holds the status fields the tracker reads.
type Status struct {
	UploadStatus  string `json:"uploadStatus"`
	PrivacyStatus string `json:"privacyStatus"`
}

// Video is one videos.list item. The raw parts are kept for storage.
type Video struct {
	ID      string
	Snippet Snippet
	Status  Status

	RawSnippet        json.RawMessage
	RawContentDetails json.RawMessage
	RawStatus         json.RawMessage
}

// IsLive reports whether the video is an uploaded, currently live broadcast.
func (v *Video) IsLive() bool {
	return v.Status.UploadStatus == "uploaded" && v.Snippet.LiveBroadcastContent == "live"
}

type videoListResponse struct {
	Items []struct {
		ID             string          `json:"id"`
		Snippet        json.RawMessage `json:"snippet"`
		ContentDetails json.RawMessage `json:"contentDetails"`
		Status         json.RawMessage `json:"status"`
	} `json:"items"`
}

type apiResponse struct {
	status int
	body   []byte
}

// Client is a minimal YouTube Data API v3 client.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker.Breaker
}

// NewClient creates a client. httpClient may be nil.
func NewClient(cfg ClientConfig, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker:    breaker.New("youtube-api", breaker.Settings{}),
	}
}

// GetVideo fetches contentDetails, snippet and status for one video.
func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	start := time.Now()
	v, err := c.getVideo(ctx, id)

	result := "success"
	switch {
	case errors.Is(err, ErrVideoNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.EnrichmentDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return v, err
}

func (c *Client) getVideo(ctx context.Context, id string) (*Video, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	query.Set("id", id)
	query.Set("part", videoParts)
	query.Set("hl", c.cfg.Language)
	if c.cfg.APIKey != "" {
		query.Set("key", c.cfg.APIKey)
	}

	resp, err := c.doRequest(ctx, "/videos", query)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.status)
	}

	var list videoListResponse
	if err := json.Unmarshal(resp.body, &list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	item := list.Items[0]
	v := &Video{
		ID:                item.ID,
		RawSnippet:        item.Snippet,
		RawContentDetails: item.ContentDetails,
		RawStatus:         item.Status,
	}
	if len(item.Snippet) > 0 {
		if err := json.Unmarshal(item.Snippet, &v.Snippet); err != nil {
			return nil, fmt.Errorf("decode snippet: %w", err)
		}
	}
	if len(item.Status) > 0 {
		if err := json.Unmarshal(item.Status, &v.Status); err != nil {
			return nil, fmt.Errorf("decode status: %w", err)
		}
	}
	return v, nil
}

// doRequest issues a GET through the breaker. Transport errors and 5xx
// responses trip it; 4xx (bad key, quota) are returned to the caller.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (*apiResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	return breaker.Cast[apiResponse](c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("youtube request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		return &apiResponse{status: resp.StatusCode, body: body}, nil
	}))
}
