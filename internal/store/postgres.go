// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

// Package store owns the PostgreSQL connection pool and schema migrations.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/memohub/memo/internal/auth/postgres"
)

// Connection defaults.
const (
	DefaultConnectAttempts = 5
	connectBackoffBase     = 250 * time.Millisecond
)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// Store is a PostgreSQL-backed store.
type Store struct {
	pool  *pgxpool.Pool
	users *postgres.UserRepository
}

// Open creates a connection pool for dsn and waits until the database
// answers a ping. Failed pings are retried with exponential backoff,
// attempts times in total.
func Open(ctx context.Context, dsn string, attempts int) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	if err := pingWithRetry(ctx, pool, attempts, connectBackoffBase); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		pool:  pool,
		users: postgres.NewUserRepository(pool),
	}, nil
}

func pingWithRetry(ctx context.Context, p pinger, attempts int, base time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var tries int
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base)) //nolint:gosec // attempts >= 1
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tries++
		if err := p.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", tries).
			Wrap(err)
	}
	return nil
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *postgres.UserRepository {
	return s.users
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
