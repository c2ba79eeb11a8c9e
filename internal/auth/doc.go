// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

// Package auth provides account signup and login for memo.
//
// # Domain Types
//
// Users should be created with NewUser, which assigns an ID and creation
// time. Username and password shape rules live in IsValidUsername and
// IsValidPassword and are enforced by the Service before a User is built.
//
// # Collaborators
//
// The Service depends on three narrow interfaces:
//   - UserRepository - durable lookup and insert of users
//   - PasswordHasher - one-way hashing and constant-time verification
//   - TokenIssuer - signed session tokens bound to a username
//
// Login returns the issued token; delivering it to the client (a cookie)
// is the job of the HTTP layer.
//
// # Errors
//
// Business rule violations are reported as oops-coded errors wrapping the
// sentinels in errors.go. Match them with errors.Is.
package auth
