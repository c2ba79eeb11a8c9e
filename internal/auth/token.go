// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Token defaults.
const (
	DefaultTokenTTL    = 60 * time.Minute
	DefaultTokenIssuer = "memo"
)

// TokenIssuer creates and validates signed session tokens.
type TokenIssuer interface {
	// Issue returns a signed token bound to username.
	Issue(username string) (string, error)

	// Parse validates a token and returns the username it is bound to.
	// Returns ErrTokenExpired for expired tokens and ErrInvalidToken otherwise.
	Parse(token string) (string, error)
}

// JWTIssuer issues HS256 JSON Web Tokens with the username as subject.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. An empty issuer or non-positive ttl
// falls back to DefaultTokenIssuer and DefaultTokenTTL.
func NewJWTIssuer(secret []byte, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_ISSUER_INVALID").Errorf("signing secret is required")
	}
	if issuer == "" {
		issuer = DefaultTokenIssuer
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (i *JWTIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token whose subject is username.
func (i *JWTIssuer) Issue(username string) (string, error) {
	if username == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("username cannot be empty")
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("username", username).Wrap(err)
	}
	return signed, nil
}

// Parse validates the signature, algorithm, issuer and expiry of a token
// and returns its subject.
func (i *JWTIssuer) Parse(tokenString string) (string, error) {
	if tokenString == "" {
		return "", oops.Code(CodeTokenInvalid).Wrap(ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", oops.Code(CodeTokenExpired).Wrap(ErrTokenExpired)
		}
		return "", oops.Code(CodeTokenInvalid).With("reason", err.Error()).Wrap(ErrInvalidToken)
	}
	if !token.Valid || claims.Subject == "" {
		return "", oops.Code(CodeTokenInvalid).Wrap(ErrInvalidToken)
	}

	return claims.Subject, nil
}

// Compile-time interface check.
var _ TokenIssuer = (*JWTIssuer)(nil)
