// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User represents a registered account.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a User with a fresh ID.
// The username must already satisfy IsValidUsername and passwordHash must
// be the output of a PasswordHasher.
func NewUser(username, passwordHash string) (*User, error) {
	if !IsValidUsername(username) {
		return nil, oops.Code(CodeInvalidUsername).
			With("username", username).
			Wrap(ErrInvalidUsername)
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user.
	// Returns ErrDuplicateUsername if the username is already taken.
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves a user by exact username.
	// Returns ErrNotFound if no user has the given username.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
