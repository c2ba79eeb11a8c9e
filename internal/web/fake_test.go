// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"context"

	"github.com/memohub/memo/internal/auth"
)

// fakeService is a function-field AuthService for handler tests.
type fakeService struct {
	signup       func(ctx context.Context, req auth.SignupRequest) (*auth.User, error)
	login        func(ctx context.Context, req auth.LoginRequest) (string, error)
	authenticate func(token string) (string, error)
}

func (f *fakeService) Signup(ctx context.Context, req auth.SignupRequest) (*auth.User, error) {
	return f.signup(ctx, req)
}

func (f *fakeService) Login(ctx context.Context, req auth.LoginRequest) (string, error) {
	return f.login(ctx, req)
}

func (f *fakeService) Authenticate(token string) (string, error) {
	return f.authenticate(token)
}
