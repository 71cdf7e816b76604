// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package config

import (
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	WebSub   WebSubConfig   `koanf:"websub"`
	Renewal  RenewalConfig  `koanf:"renewal"`
	YouTube  YouTubeConfig  `koanf:"youtube"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`

	// Channels are YouTube channel IDs tracked at startup in addition to
	// the ones already in the store.
	Channels []string `koanf:"channels"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"` // bind address
	Timeout time.Duration `koanf:"timeout"`

	// PublicHost is the externally reachable host name the hub calls back.
	PublicHost string `koanf:"public_host"`

	// CallbackPath is where the WebSub receiver is mounted.
	CallbackPath string `koanf:"callback_path"`

	// CallbackURL overrides the callback derived from PublicHost and CallbackPath.
	CallbackURL string `koanf:"callback_url"`
}

// WebSubConfig holds hub and subscription protocol settings.
type WebSubConfig struct {
	HubURL         string            `koanf:"hub_url"`
	Secret         string            `koanf:"secret"`
	LeaseSeconds   int               `koanf:"lease_seconds"` // 0 lets the hub decide
	MaxContentSize int64             `koanf:"max_content_size"`
	RequestTimeout time.Duration     `koanf:"request_timeout"`
	Headers        map[string]string `koanf:"headers"`
}

// RenewalConfig holds the lease renewal sweep settings.
type RenewalConfig struct {
	Interval    time.Duration `koanf:"interval"`
	RenewBefore time.Duration `koanf:"renew_before"`
	Stagger     time.Duration `koanf:"stagger"`

	// SubscribeOnStart issues a subscription for every tracked channel at boot.
	SubscribeOnStart bool `koanf:"subscribe_on_start"`
}

// YouTubeConfig holds Data API settings used to enrich feed entries.
type YouTubeConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	Language       string        `koanf:"language"`
	Timeout        time.Duration `koanf:"timeout"`
	RequestsPerSec float64       `koanf:"requests_per_second"`
	Burst          int           `koanf:"burst"`
}

// StoreConfig holds BadgerDB settings.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds status API protection settings.
type SecurityConfig struct {
	StatusUsername  string        `koanf:"status_username"`
	StatusPassword  string        `koanf:"status_password"` // falls back to WebSub.Secret
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to every log line.
	Caller bool `koanf:"caller"`
}

// ResolvedCallbackURL returns the base callback URL handed to the hub.
// An explicit CallbackURL wins; otherwise it is https://PublicHost/CallbackPath.
func (c *Config) ResolvedCallbackURL() string {
	if c.Server.CallbackURL != "" {
		return c.Server.CallbackURL
	}
	if c.Server.PublicHost == "" {
		return ""
	}
	return "https://" + strings.TrimSuffix(c.Server.PublicHost, "/") + c.Server.CallbackPath
}

// StatusPassword returns the password protecting the status API.
func (c *Config) StatusPassword() string {
	if c.Security.StatusPassword != "" {
		return c.Security.StatusPassword
	}
	return c.WebSub.Secret
}
