// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hubbub/config.yaml",
	"/etc/hubbub/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultHubURL is the public Google hub YouTube publishes through.
const DefaultHubURL = "https://pubsubhubbub.appspot.com/"

// DefaultMaxContentSize bounds accepted notification bodies.
const DefaultMaxContentSize = 3 * 1024 * 1024

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         1337,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			CallbackPath: "/hubbub",
		},
		WebSub: WebSubConfig{
			HubURL:         DefaultHubURL,
			LeaseSeconds:   0,
			MaxContentSize: DefaultMaxContentSize,
			RequestTimeout: 30 * time.Second,
		},
		Renewal: RenewalConfig{
			Interval:         time.Hour,
			RenewBefore:      24 * time.Hour,
			Stagger:          time.Second,
			SubscribeOnStart: true,
		},
		YouTube: YouTubeConfig{
			BaseURL:        "https://www.googleapis.com/youtube/v3",
			Language:       "en",
			Timeout:        15 * time.Second,
			RequestsPerSec: 5,
			Burst:          10,
		},
		Store: StoreConfig{
			Path: "/data/hubbub",
		},
		Security: SecurityConfig{
			StatusUsername:  "admin",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration with koanf from three layers:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come from env.
var sliceConfigPaths = []string{
	"channels",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"host":           "server.public_host",
	"callback_path":  "server.callback_path",
	"callback_url":   "server.callback_url",

	"hub_url":             "websub.hub_url",
	"secret":              "websub.secret",
	"lease_seconds":       "websub.lease_seconds",
	"max_content_size":    "websub.max_content_size",
	"hub_request_timeout": "websub.request_timeout",

	"renew_interval":     "renewal.interval",
	"renew_before":       "renewal.renew_before",
	"renew_stagger":      "renewal.stagger",
	"subscribe_on_start": "renewal.subscribe_on_start",

	"youtube_key":      "youtube.api_key",
	"youtube_base_url": "youtube.base_url",
	"youtube_language": "youtube.language",
	"youtube_timeout":  "youtube.timeout",
	"youtube_rps":      "youtube.requests_per_second",
	"youtube_burst":    "youtube.burst",

	"store_path":      "store.path",
	"store_in_memory": "store.in_memory",

	"status_username":   "security.status_username",
	"status_password":   "security.status_password",
	"rate_limit_reqs":   "security.rate_limit_reqs",
	"rate_limit_window": "security.rate_limit_window",
	"cors_origins":      "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"channels": "channels",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
//   - HOST -> server.public_host
//   - YOUTUBE_KEY -> youtube.api_key
//   - RENEW_STAGGER -> renewal.stagger
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
