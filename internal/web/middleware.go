// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"context"
	"net/http"

	"github.com/memohub/memo/internal/auth"
)

type contextKey struct{}

// Authenticator resolves a session token to a username.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequireAuth rejects requests without a valid session token and stores
// the authenticated username on the request context.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeProblem(w, Problem{
					Status: http.StatusUnauthorized,
					Code:   auth.CodeTokenInvalid,
					Detail: "authentication required",
				})
				return
			}

			username, err := a.Authenticate(token)
			if err != nil {
				p, _ := problemFor(err)
				writeProblem(w, p)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUsername(r.Context(), username)))
		})
	}
}

// ContextWithUsername returns a copy of ctx carrying username.
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKey{}, username)
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(contextKey{}).(string)
	return username, ok && username != ""
}
