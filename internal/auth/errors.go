// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth

import "errors"

// ErrNotFound is returned by repositories when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Business rule violations reported by Service.
var (
	ErrInvalidPassword    = errors.New("password must be 8-15 letters or digits")
	ErrInvalidUsername    = errors.New("username must be 4-10 lowercase letters or digits")
	ErrDuplicateUsername  = errors.New("username is already registered")
	ErrUserNotFound       = errors.New("no user is registered with that username")
	ErrInvalidCredentials = errors.New("password does not match")
)

// Token errors reported by TokenIssuer.Parse.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error codes attached to returned errors with oops.Code.
const (
	CodeInvalidPassword    = "AUTH_INVALID_PASSWORD"
	CodeInvalidUsername    = "AUTH_INVALID_USERNAME"
	CodeDuplicateUsername  = "AUTH_DUPLICATE_USERNAME"
	CodeUserNotFound       = "AUTH_USER_NOT_FOUND"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	CodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
)
