// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

// Package validation wraps go-playground/validator v10 with a shared
// instance, JSON field names in messages and a channelid rule for YouTube
// channel IDs.
//
//	type addChannelRequest struct {
//	    ID    string `json:"id" validate:"required,channelid"`
//	    Title string `json:"title" validate:"max=200"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    ...
//	}
package validation
