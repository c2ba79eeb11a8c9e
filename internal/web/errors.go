// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/memohub/memo/internal/auth"
)

// Problem codes produced by the HTTP layer itself.
const (
	CodeMalformedRequest = "REQUEST_MALFORMED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL"
)

// errorMapping ties an auth error to its HTTP representation.
type errorMapping struct {
	target error
	status int
	code   string
	result string
}

var errorMappings = []errorMapping{
	{auth.ErrInvalidPassword, http.StatusBadRequest, auth.CodeInvalidPassword, "invalid_password"},
	{auth.ErrInvalidUsername, http.StatusBadRequest, auth.CodeInvalidUsername, "invalid_username"},
	{auth.ErrDuplicateUsername, http.StatusConflict, auth.CodeDuplicateUsername, "duplicate_username"},
	{auth.ErrUserNotFound, http.StatusUnauthorized, auth.CodeUserNotFound, "user_not_found"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, auth.CodeInvalidCredentials, "invalid_credentials"},
	{auth.ErrTokenExpired, http.StatusUnauthorized, auth.CodeTokenExpired, "token_expired"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, auth.CodeTokenInvalid, "token_invalid"},
	{errMalformedBody, http.StatusBadRequest, CodeMalformedRequest, "malformed"},
}

// problemFor maps err to a problem document and a metrics result label.
// Errors without a mapping become a 500 whose detail hides the cause.
func problemFor(err error) (Problem, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return Problem{
				Status: m.status,
				Code:   m.code,
				Detail: m.target.Error(),
			}, m.result
		}
	}
	return Problem{
		Status: http.StatusInternalServerError,
		Code:   CodeInternal,
	}, "error"
}
