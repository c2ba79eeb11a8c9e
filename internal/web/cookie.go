// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Session token transport.
const (
	// CookieName is the name of the cookie carrying the session token.
	CookieName = "Authorization"
	// BearerPrefix precedes the token in both the cookie and the header.
	BearerPrefix = "Bearer "
)

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// setTokenCookie attaches token to the response as the session cookie.
// The value is "Bearer <token>" percent-encoded, so the space travels as %20.
func setTokenCookie(w http.ResponseWriter, token string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    url.PathEscape(BearerPrefix + token),
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest extracts the session token from the cookie, falling back
// to an Authorization: Bearer header. It returns "" when neither is present.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if raw, err := url.PathUnescape(c.Value); err == nil {
			if token, ok := strings.CutPrefix(raw, BearerPrefix); ok {
				return strings.TrimSpace(token)
			}
		}
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), BearerPrefix); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
