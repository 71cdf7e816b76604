// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package websub

import (
	"regexp"
	"strings"
)

// linkPattern matches one `<url>; rel=value` entry. Quotes around the rel
// value are optional.
var linkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel=["']?([A-Za-z]+)`)

// Link is one entry of a Link header.
type Link struct {
	URL string
	Rel string
}

// ParseLinkHeader returns every `<url>; rel=...` entry in the header in
// order of appearance. Rel values are lower-cased.
func ParseLinkHeader(header string) []Link {
	matches := linkPattern.FindAllStringSubmatch(header, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{URL: m[1], Rel: strings.ToLower(m[2])})
	}
	return links
}

// applyLinks overrides topic and hub from the first rel=self and the first
// rel=hub entry. ok is false when the header has no parsable entry at all.
func applyLinks(header, topic, hub string) (newTopic, newHub string, ok bool) {
	links := ParseLinkHeader(header)
	if len(links) == 0 {
		return topic, hub, false
	}
	var haveSelf, haveHub bool
	for _, l := range links {
		switch {
		case l.Rel == "self" && !haveSelf:
			topic, haveSelf = l.URL, true
		case l.Rel == "hub" && !haveHub:
			hub, haveHub = l.URL, true
		}
	}
	return topic, hub, true
}
