// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

/*
Package store persists tracked channels and enriched videos in BadgerDB.

Values are JSON documents under two key prefixes:

	channel:<channel id>  -> Channel
	video:<video id>      -> Video

Channel read-modify-write goes through Update, which serializes callers so
concurrent event handlers never lose a counter increment. Videos are
insert-only: InsertVideoIfAbsent keeps the first document written for an ID.

Open with InMemory set for tests and ephemeral deployments:

	st, err := store.Open(store.Config{InMemory: true})
*/
package store
