// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/memohub/memo/internal/auth"
	"github.com/memohub/memo/internal/observability"
	"github.com/memohub/memo/internal/store"
	"github.com/memohub/memo/internal/web"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseOpener connects to the user database.
	// Default: store.Open
	DatabaseOpener func(ctx context.Context, url string, attempts int) (Database, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: web.NewServer
	APIServerFactory func(addr string, handler http.Handler, readHeaderTimeout time.Duration) APIServer
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory opens a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)
}

// Database wraps the methods serve uses from store.Store.
type Database interface {
	UserRepository() auth.UserRepository
	Ping(ctx context.Context) error
	Close()
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer wraps the methods used from web.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// postgresDatabase adapts store.Store to Database.
type postgresDatabase struct {
	*store.Store
}

func (d postgresDatabase) UserRepository() auth.UserRepository {
	return d.Users()
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := *d
	if out.DatabaseOpener == nil {
		out.DatabaseOpener = func(ctx context.Context, url string, attempts int) (Database, error) {
			s, err := store.Open(ctx, url, attempts)
			if err != nil {
				return nil, err
			}
			return postgresDatabase{s}, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, checker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, checker)
		}
	}
	if out.APIServerFactory == nil {
		out.APIServerFactory = func(addr string, handler http.Handler, readHeaderTimeout time.Duration) APIServer {
			return web.NewServer(addr, handler, readHeaderTimeout)
		}
	}
	return &out
}

func (d *MigrateDeps) withDefaults() *MigrateDeps {
	out := *d
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return &out
}
