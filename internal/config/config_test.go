// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Server.PublicHost = "hubbub.example.com"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with host", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"relative callback path", func(c *Config) { c.Server.CallbackPath = "hubbub" }, "CALLBACK_PATH"},
		{"no callback", func(c *Config) { c.Server.PublicHost = "" }, "HOST or CALLBACK_URL"},
		{"explicit callback only", func(c *Config) {
			c.Server.PublicHost = ""
			c.Server.CallbackURL = "https://cb.example.com/push"
		}, ""},
		{"callback bad scheme", func(c *Config) { c.Server.CallbackURL = "ftp://cb.example.com" }, "CALLBACK_URL"},
		{"hub missing", func(c *Config) { c.WebSub.HubURL = "" }, "HUB_URL is required"},
		{"hub no host", func(c *Config) { c.WebSub.HubURL = "https://" }, "HUB_URL must include a host"},
		{"negative lease", func(c *Config) { c.WebSub.LeaseSeconds = -1 }, "LEASE_SECONDS"},
		{"zero max size", func(c *Config) { c.WebSub.MaxContentSize = 0 }, "MAX_CONTENT_SIZE"},
		{"zero interval", func(c *Config) { c.Renewal.Interval = 0 }, "RENEW_INTERVAL"},
		{"negative stagger", func(c *Config) { c.Renewal.Stagger = -time.Second }, "RENEW_STAGGER"},
		{"zero rps", func(c *Config) { c.YouTube.RequestsPerSec = 0 }, "YOUTUBE_RPS"},
		{"no store path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"in memory store", func(c *Config) {
			c.Store.Path = ""
			c.Store.InMemory = true
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"valid channels", func(c *Config) { c.Channels = []string{"UC_x5XG1OV2P6uZZ5FSM9Ttw"} }, ""},
		{"bad channel", func(c *Config) { c.Channels = []string{"UC_x5XG1OV2P6uZZ5FSM9Ttw", "nope"} }, "CHANNELS[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvedCallbackURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.PublicHost = "hubbub.example.com/"
	if got := cfg.ResolvedCallbackURL(); got != "https://hubbub.example.com/hubbub" {
		t.Errorf("ResolvedCallbackURL() = %q", got)
	}

	cfg.Server.CallbackURL = "http://override.example.com/cb?x=1"
	if got := cfg.ResolvedCallbackURL(); got != "http://override.example.com/cb?x=1" {
		t.Errorf("explicit callback should win, got %q", got)
	}
}

func TestStatusPassword(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.WebSub.Secret = "master"
	if cfg.StatusPassword() != "master" {
		t.Errorf("expected fallback to master secret")
	}
	cfg.Security.StatusPassword = "dedicated"
	if cfg.StatusPassword() != "dedicated" {
		t.Errorf("expected dedicated status password")
	}
}
