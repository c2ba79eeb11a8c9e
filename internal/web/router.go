// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// DefaultRequestTimeout bounds a request when RouterConfig leaves it unset.
const DefaultRequestTimeout = 15 * time.Second

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// RequestTimeout bounds each request's context.
	RequestTimeout time.Duration
	// RateLimit is the number of signup and login requests allowed per
	// client IP per minute. Zero disables the limit.
	RateLimit int
	// TrustProxyHeaders rewrites the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP before rate limiting. Leave it off unless
	// a proxy in front of the server overwrites those headers.
	TrustProxyHeaders bool
}

// NewRouter builds the API router around h.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	headers := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(headers.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(h.metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeProblem(w, Problem{Status: http.StatusNotFound, Code: "NOT_FOUND"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeProblem(w, Problem{Status: http.StatusMethodNotAllowed, Code: "METHOD_NOT_ALLOWED"})
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimit > 0 {
				r.Use(httprate.Limit(cfg.RateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(rateLimited),
				))
			}
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})
		r.With(RequireAuth(h.svc)).Get("/me", h.Me)
	})

	return r
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	writeProblem(w, Problem{
		Status: http.StatusTooManyRequests,
		Code:   CodeRateLimited,
		Detail: "too many requests, retry later",
	})
}
