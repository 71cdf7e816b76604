// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package websub

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // SHA-1 is mandated by the protocol for secret derivation and sha1 signatures
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// SignatureHeader is the header hubs sign content notifications with.
const SignatureHeader = "X-Hub-Signature"

// ErrUnsupportedAlgorithm is returned for signature algorithms other than
// sha1, sha256, sha384 and sha512.
var ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")

// DeriveSecret returns the per-topic secret sent to the hub as hub.secret:
// the lower-case hex HMAC-SHA1 of topic keyed by the master secret. The
// master secret itself never leaves the process.
func DeriveSecret(masterSecret, topic string) string {
	mac := hmac.New(sha1.New, []byte(masterSecret))
	mac.Write([]byte(topic))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewSignatureHash returns an HMAC keyed by the derived secret for the
// algorithm named in X-Hub-Signature. Callers feed body chunks into it in
// arrival order.
func NewSignatureHash(algorithm, derivedSecretHex string) (hash.Hash, error) {
	var fn func() hash.Hash
	switch strings.ToLower(algorithm) {
	case "sha1":
		fn = sha1.New
	case "sha256":
		fn = sha256.New
	case "sha384":
		fn = sha512.New384
	case "sha512":
		fn = sha512.New
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return hmac.New(fn, []byte(derivedSecretHex)), nil
}

// Verify reports whether providedSignatureHex is the HMAC of body under the
// named algorithm keyed by derivedSecretHex. Hex digests compare
// case-insensitively. An unsupported algorithm never verifies.
func Verify(algorithm, derivedSecretHex string, body []byte, providedSignatureHex string) bool {
	mac, err := NewSignatureHash(algorithm, derivedSecretHex)
	if err != nil {
		return false
	}
	mac.Write(body)
	return digestMatches(mac, providedSignatureHex)
}

// ParseSignatureHeader splits "algo=hexdigest". The algorithm is the text
// before the first '=', the digest the text after the last '=', both
// lower-cased.
func ParseSignatureHeader(value string) (algorithm, signature string) {
	parts := strings.Split(value, "=")
	algorithm = strings.ToLower(parts[0])
	if len(parts) > 1 {
		signature = strings.ToLower(parts[len(parts)-1])
	}
	return algorithm, signature
}

func digestMatches(mac hash.Hash, providedSignatureHex string) bool {
	computed := hex.EncodeToString(mac.Sum(nil))
	provided := strings.ToLower(providedSignatureHex)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(provided)) == 1
}
