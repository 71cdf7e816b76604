// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/hubbub/internal/validation"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateWebSub(); err != nil {
		return err
	}
	if err := c.validateRenewal(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateChannels(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateChannels() error {
	for i, id := range c.Channels {
		if err := validation.ValidateVar(fmt.Sprintf("CHANNELS[%d]", i), id, "channelid"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.Server.CallbackPath, "/") {
		return fmt.Errorf("CALLBACK_PATH must start with /")
	}
	if c.ResolvedCallbackURL() == "" {
		return fmt.Errorf("HOST or CALLBACK_URL is required so the hub can reach the callback")
	}
	if c.Server.CallbackURL != "" {
		if err := validateHTTPURL("CALLBACK_URL", c.Server.CallbackURL); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateWebSub() error {
	if err := validateHTTPURL("HUB_URL", c.WebSub.HubURL); err != nil {
		return err
	}
	if c.WebSub.LeaseSeconds < 0 {
		return fmt.Errorf("LEASE_SECONDS must not be negative")
	}
	if c.WebSub.MaxContentSize <= 0 {
		return fmt.Errorf("MAX_CONTENT_SIZE must be positive")
	}
	if c.WebSub.RequestTimeout <= 0 {
		return fmt.Errorf("HUB_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRenewal() error {
	if c.Renewal.Interval <= 0 {
		return fmt.Errorf("RENEW_INTERVAL must be positive")
	}
	if c.Renewal.RenewBefore < 0 {
		return fmt.Errorf("RENEW_BEFORE must not be negative")
	}
	if c.Renewal.Stagger < 0 {
		return fmt.Errorf("RENEW_STAGGER must not be negative")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if err := validateHTTPURL("YOUTUBE_BASE_URL", c.YouTube.BaseURL); err != nil {
		return err
	}
	if c.YouTube.RequestsPerSec <= 0 {
		return fmt.Errorf("YOUTUBE_RPS must be positive")
	}
	if c.YouTube.Burst < 1 {
		return fmt.Errorf("YOUTUBE_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.StatusUsername == "" {
		return fmt.Errorf("STATUS_USERNAME must not be empty")
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
