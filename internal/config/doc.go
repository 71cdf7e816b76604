// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package config loads Hubbub configuration with Koanf v2.

Sources are layered with clear precedence:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/hubbub/config.yaml)
 3. Environment variables (highest priority)

Only the environment variables listed in envMappings are read. The most
common ones:

	HOST            public host name; callback defaults to https://HOST/hubbub
	SECRET          master secret for per-topic HMAC secrets and status API auth
	YOUTUBE_KEY     YouTube Data API key for video enrichment
	HUB_URL         hub endpoint (default https://pubsubhubbub.appspot.com/)
	HTTP_PORT       listen port (default 1337)
	CHANNELS        comma-separated channel IDs to track at startup
	STORE_PATH      BadgerDB directory

Custom headers sent with every hub request can only be set from YAML:

	websub:
	  headers:
	    User-Agent: hubbub
*/
package config
