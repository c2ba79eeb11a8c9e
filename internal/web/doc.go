// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

// Package web exposes signup, login and the current-user lookup over HTTP.
//
// Errors are written as application/problem+json documents carrying the
// same code the auth package attaches to the error. Successful logins set
// the session token as an Authorization cookie.
package web
