// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/memohub/memo/internal/auth"
	"github.com/memohub/memo/internal/observability"
	"github.com/memohub/memo/pkg/errutil"
)

// AuthService is the account API the handlers call into.
type AuthService interface {
	Authenticator
	Signup(ctx context.Context, req auth.SignupRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (string, error)
}

// credentials is the request body of signup and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type userResponse struct {
	Username string `json:"username"`
}

// Handlers serves the /api/user endpoints.
type Handlers struct {
	svc     AuthService
	metrics *observability.Metrics
	cookie  CookieConfig
	logger  *slog.Logger
}

// NewHandlers creates the user API handlers. A nil metrics disables counting
// and a nil logger falls back to slog.Default.
func NewHandlers(svc AuthService, metrics *observability.Metrics, cookie CookieConfig, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, metrics: metrics, cookie: cookie, logger: logger}
}

// Signup handles POST /api/user/signup.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		h.metrics.RecordSignup("malformed")
		h.fail(w, r, "signup", err)
		return
	}

	user, err := h.svc.Signup(r.Context(), auth.SignupRequest{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.metrics.RecordSignup(h.fail(w, r, "signup", err))
		return
	}

	h.metrics.RecordSignup("success")
	writeJSON(w, http.StatusCreated, signupResponse{
		ID:       user.ID.String(),
		Username: user.Username,
	})
}

// Login handles POST /api/user/login. On success the session token is set
// as a cookie; failures never set one.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		h.metrics.RecordLogin("malformed")
		h.fail(w, r, "login", err)
		return
	}

	token, err := h.svc.Login(r.Context(), auth.LoginRequest{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.metrics.RecordLogin(h.fail(w, r, "login", err))
		return
	}

	h.metrics.RecordLogin("success")
	setTokenCookie(w, token, h.cookie)
	writeJSON(w, http.StatusOK, userResponse{Username: body.Username})
}

// Me handles GET /api/user/me behind RequireAuth.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeProblem(w, Problem{
			Status: http.StatusUnauthorized,
			Code:   auth.CodeTokenInvalid,
			Detail: "authentication required",
		})
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Username: username})
}

// fail writes the problem for err and returns its metrics result label.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, operation string, err error) string {
	p, result := problemFor(err)
	if p.Status >= http.StatusInternalServerError {
		errutil.LogErrorContext(r.Context(), h.logger.With("operation", operation, "path", r.URL.Path), "request failed", err)
	}
	writeProblem(w, p)
	return result
}
