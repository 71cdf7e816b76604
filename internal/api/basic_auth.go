// Hubbub - WebSub Subscriber for YouTube Channel Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hubbub

package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/hubbub/internal/logging"
)

// bcryptCost is the work factor for the stored password hash.
var bcryptCost = 12

// BasicAuth guards the status API with a single HTTP Basic user.
type BasicAuth struct {
	username     string
	passwordHash []byte // bcrypt hash of password
}

// NewBasicAuth hashes password once so requests only pay for the compare.
func NewBasicAuth(username, password string) (*BasicAuth, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	// bcrypt ignores everything past 72 bytes and newer versions reject it.
	if len(password) > 72 {
		return nil, fmt.Errorf("password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuth{
		username:     username,
		passwordHash: hash,
	}, nil
}

// Valid reports whether the credentials match. Both comparisons always run.
func (a *BasicAuth) Valid(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// Middleware rejects requests without valid credentials with a 401 challenge.
func (a *BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !a.Valid(username, password) {
			logging.Ctx(r.Context()).Warn().
				Str("path", r.URL.Path).
				Str("username", sanitizeLogValue(username)).
				Msg("Rejected status API credentials")
			w.Header().Set("WWW-Authenticate", `Basic realm="Hubbub", charset="UTF-8"`)
			respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
