// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns the documented defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 1337 {
		t.Errorf("Server.Port = %d, want 1337", cfg.Server.Port)
	}
	if cfg.Server.CallbackPath != "/hubbub" {
		t.Errorf("Server.CallbackPath = %q, want /hubbub", cfg.Server.CallbackPath)
	}
	if cfg.WebSub.HubURL != DefaultHubURL {
		t.Errorf("WebSub.HubURL = %q, want %q", cfg.WebSub.HubURL, DefaultHubURL)
	}
	if cfg.WebSub.MaxContentSize != 3*1024*1024 {
		t.Errorf("WebSub.MaxContentSize = %d, want 3 MiB", cfg.WebSub.MaxContentSize)
	}
	if cfg.WebSub.LeaseSeconds != 0 {
		t.Errorf("WebSub.LeaseSeconds = %d, want 0", cfg.WebSub.LeaseSeconds)
	}
	if cfg.Renewal.Interval != time.Hour {
		t.Errorf("Renewal.Interval = %v, want 1h", cfg.Renewal.Interval)
	}
	if cfg.Renewal.RenewBefore != 24*time.Hour {
		t.Errorf("Renewal.RenewBefore = %v, want 24h", cfg.Renewal.RenewBefore)
	}
	if cfg.Renewal.Stagger != time.Second {
		t.Errorf("Renewal.Stagger = %v, want 1s", cfg.Renewal.Stagger)
	}
	if cfg.Security.StatusUsername != "admin" {
		t.Errorf("Security.StatusUsername = %q, want admin", cfg.Security.StatusUsername)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HOST", "server.public_host"},
		{"SECRET", "websub.secret"},
		{"YOUTUBE_KEY", "youtube.api_key"},
		{"HTTP_PORT", "server.port"},
		{"RENEW_STAGGER", "renewal.stagger"},
		{"CHANNELS", "channels"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HOST", "hubbub.example.com")
	t.Setenv("SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LEASE_SECONDS", "432000")
	t.Setenv("RENEW_STAGGER", "250ms")
	t.Setenv("CHANNELS", "UC_x5XG1OV2P6uZZ5FSM9Ttw, UCBR8-60-B28hp2BmDPdntcQ")
	t.Setenv("STORE_IN_MEMORY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.WebSub.Secret != "s3cret" {
		t.Errorf("WebSub.Secret = %q", cfg.WebSub.Secret)
	}
	if cfg.WebSub.LeaseSeconds != 432000 {
		t.Errorf("WebSub.LeaseSeconds = %d", cfg.WebSub.LeaseSeconds)
	}
	if cfg.Renewal.Stagger != 250*time.Millisecond {
		t.Errorf("Renewal.Stagger = %v", cfg.Renewal.Stagger)
	}
	if len(cfg.Channels) != 2 || cfg.Channels[1] != "UCBR8-60-B28hp2BmDPdntcQ" {
		t.Errorf("Channels = %v", cfg.Channels)
	}
	if got := cfg.ResolvedCallbackURL(); got != "https://hubbub.example.com/hubbub" {
		t.Errorf("ResolvedCallbackURL() = %q", got)
	}
	if got := cfg.StatusPassword(); got != "s3cret" {
		t.Errorf("StatusPassword() = %q, want fallback to secret", got)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  public_host: file.example.com
  port: 9000
websub:
  hub_url: https://hub.example.com/
  headers:
    User-Agent: hubbub-test
renewal:
  interval: 30m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("STORE_IN_MEMORY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file: Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Server.PublicHost != "file.example.com" {
		t.Errorf("Server.PublicHost = %q", cfg.Server.PublicHost)
	}
	if cfg.WebSub.HubURL != "https://hub.example.com/" {
		t.Errorf("WebSub.HubURL = %q", cfg.WebSub.HubURL)
	}
	if cfg.WebSub.Headers["User-Agent"] != "hubbub-test" {
		t.Errorf("WebSub.Headers = %v", cfg.WebSub.Headers)
	}
	if cfg.Renewal.Interval != 30*time.Minute {
		t.Errorf("Renewal.Interval = %v", cfg.Renewal.Interval)
	}
}

func TestLoad_MissingHost(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HOST", "")
	t.Setenv("STORE_IN_MEMORY", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "HOST or CALLBACK_URL") {
		t.Fatalf("Load() error = %v, want missing HOST error", err)
	}
}
