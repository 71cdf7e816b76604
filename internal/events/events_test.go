// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package events

import (
	"strings"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
		if k.Topic() != "hubbub."+string(k) {
			t.Errorf("Topic() = %q", k.Topic())
		}
	}
	if Kind("listen").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestEventKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event Event
		want  Kind
	}{
		{Subscribe{}, KindSubscribe},
		{Unsubscribe{}, KindUnsubscribe},
		{Denied{}, KindDenied},
		{Feed{}, KindFeed},
		{Error{}, KindError},
	}
	for _, tt := range tests {
		if got := tt.event.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestMarshal_FieldNames(t *testing.T) {
	t.Parallel()

	data, err := Marshal(Subscribe{Topic: "t", Hub: "h", LeaseSeconds: 0})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"lease":0`) {
		t.Errorf("subscribe payload should always carry lease, got %s", data)
	}

	data, err = Marshal(Denied{Topic: "t", Error: "invalid response status 404"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), `"hub"`) {
		t.Errorf("empty hub should be omitted, got %s", data)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Unmarshal(Kind("bogus"), []byte(`{}`)); err == nil {
		t.Error("expected unknown kind error")
	}
	if _, err := Unmarshal(KindFeed, []byte(`{not json`)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Marshal(nil); err == nil {
		t.Error("expected nil event error")
	}
}
