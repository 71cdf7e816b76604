// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package websub implements the subscriber side of PubSubHubbub / WebSub.

# Components

  - DeriveSecret, Verify, NewSignatureHash: per-topic HMAC secrets and
    X-Hub-Signature validation
  - Client: posts subscribe/unsubscribe requests to a hub
  - Receiver: the callback endpoint answering verification of intent (GET)
    and accepting content distribution (POST)

# Secrets

The configured master secret is never sent to a hub. Each subscription
carries hub.secret = hex(HMAC-SHA1(master, topic)), and notifications for
that topic are verified with the same derived value as the HMAC key.

# Events

Results surface as events on the bus rather than return values:

	GET  hub.mode=subscribe    -> events.Subscribe{Topic, Hub, LeaseSeconds}
	GET  hub.mode=unsubscribe  -> events.Unsubscribe{Topic, Hub}
	GET  hub.mode=denied       -> events.Denied{Topic, Hub}
	POST valid or unsigned     -> events.Feed{Topic, Hub, CallbackURL, Body, Headers}
	hub request failure        -> events.Denied{Topic, Error}

A POST whose signature does not match answers 202 and emits nothing, since
the hub must see a 2xx either way.

# Embedding

Receiver is an http.Handler. Mounted on its own it renders errors as a
small HTML page; set ReceiverConfig.ErrorHandler to hand errors to the
surrounding router instead.
*/
package websub
