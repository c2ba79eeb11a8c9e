// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/memohub/memo/pkg/errutil"
)

// dummyPasswordHash is verified against when a user doesn't exist so that
// unknown and known usernames take a similar amount of time.
// It is not a credential and never matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing equalization, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignupRequest holds the credentials submitted to create an account.
type SignupRequest struct {
	Username string
	Password string
}

// LoginRequest holds the credentials submitted to authenticate.
type LoginRequest struct {
	Username string
	Password string
}

// Service provides signup and login.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService creates a new Service that logs through slog.Default.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service with a custom logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}, nil
}

// Signup registers a new user.
//
// The password is checked before the username, and an already registered
// username is reported before any hashing work is done.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if !IsValidPassword(req.Password) {
		return nil, oops.Code(CodeInvalidPassword).Wrap(ErrInvalidPassword)
	}
	if !IsValidUsername(req.Username) {
		return nil, oops.Code(CodeInvalidUsername).
			With("username", req.Username).
			Wrap(ErrInvalidUsername)
	}

	_, err := s.users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, oops.Code(CodeDuplicateUsername).
			With("username", req.Username).
			Wrap(ErrDuplicateUsername)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "get user by username").
			With("username", req.Username).
			Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(req.Username, hash)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "build user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup can win the race between the lookup and the insert.
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, oops.Code(CodeDuplicateUsername).
				With("username", req.Username).
				Wrap(err)
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			With("username", req.Username).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user signed up",
		"user_id", user.ID.String(),
		"username", user.Username)

	return user, nil
}

// Login authenticates a user and returns a signed session token.
//
// The submitted fields are not shape-checked: a username that could never
// have been registered is simply not found.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, req.Username)
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
		// Still run a verification so missing users cost the same time.
		_, _ = s.hasher.Verify(req.Password, dummyPasswordHash) //nolint:errcheck // result is discarded
		return "", oops.Code(CodeUserNotFound).
			With("username", req.Username).
			Wrap(ErrUserNotFound)
	}

	valid, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		errutil.LogError(s.logger, "stored password hash is unreadable", oops.
			With("user_id", user.ID.String()).
			Wrap(err))
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !valid {
		return "", oops.Code(CodeInvalidCredentials).
			With("username", req.Username).
			Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID.String(),
		"username", user.Username)

	return token, nil
}

// Authenticate resolves a session token to the username it was issued for.
func (s *Service) Authenticate(token string) (string, error) {
	username, err := s.tokens.Parse(token)
	if err != nil {
		return "", err //nolint:wrapcheck // already coded by the issuer
	}
	return username, nil
}
