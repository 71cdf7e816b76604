// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package events

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Marshal encodes an event payload to JSON.
func Marshal(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("marshal event: nil event")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Kind(), err)
	}
	return data, nil
}

// Unmarshal decodes a payload of the given kind into its concrete type.
func Unmarshal(kind Kind, data []byte) (Event, error) {
	var (
		e   Event
		err error
	)
	switch kind {
	case KindSubscribe:
		var v Subscribe
		err = json.Unmarshal(data, &v)
		e = v
	case KindUnsubscribe:
		var v Unsubscribe
		err = json.Unmarshal(data, &v)
		e = v
	case KindDenied:
		var v Denied
		err = json.Unmarshal(data, &v)
		e = v
	case KindFeed:
		var v Feed
		err = json.Unmarshal(data, &v)
		e = v
	case KindError:
		var v Error
		err = json.Unmarshal(data, &v)
		e = v
	default:
		return nil, fmt.Errorf("unmarshal event: unknown kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", kind, err)
	}
	return e, nil
}
