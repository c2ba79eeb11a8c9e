// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/memohub/memo/internal/auth"
	"github.com/memohub/memo/internal/config"
	"github.com/memohub/memo/internal/logging"
	"github.com/memohub/memo/internal/observability"
	"github.com/memohub/memo/internal/web"
)

// shutdownTimeout bounds graceful shutdown of the listeners.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the account API",
		Long: `Run the signup/login HTTP API and, when metrics.addr is set, the
metrics and health endpoints on a separate listener.

Settings come from flags, then the --config file, then flag defaults.
DATABASE_URL and MEMO_JWT_SECRET fill the database URL and signing
secret when neither a flag nor the file sets them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err //nolint:wrapcheck // already coded by config
			}
			if err := cfg.Validate(); err != nil {
				return err //nolint:wrapcheck // already coded by config
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, &ServeDeps{})
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()

	logger := logging.SetDefault(logging.Options{
		Service: "memo",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   logging.ParseLevel(cfg.Log.Level),
	})

	db, err := deps.DatabaseOpener(ctx, cfg.Database.URL, cfg.Database.ConnectAttempts)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	issuer, err := auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return oops.With("operation", "create token issuer").Wrap(err)
	}
	svc, err := auth.NewServiceWithLogger(db.UserRepository(), auth.NewArgon2idHasher(), issuer, logger)
	if err != nil {
		return oops.With("operation", "create auth service").Wrap(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		obsServer ObservabilityServer
		metrics   *observability.Metrics
	)
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, db.Ping)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVER_START_FAILED").With("server", "observability").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	cookie := web.CookieConfig{Secure: cfg.Auth.CookieSecure, TTL: issuer.TTL()}
	router := web.NewRouter(web.NewHandlers(svc, metrics, cookie, logger), web.RouterConfig{
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		RateLimit:         cfg.HTTP.RateLimit,
		TrustProxyHeaders: cfg.HTTP.TrustProxyHeaders,
	})

	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, router, cfg.HTTP.ReadHeaderTimeout)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.Code("SERVER_START_FAILED").With("server", "api").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("memo started")
	slog.Info("memo ready", "api_addr", apiServer.Addr(), "metrics_addr", cfg.Metrics.Addr)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	stopServer(apiServer, "api")
	if obsServer != nil {
		stopServer(obsServer, "observability")
	}

	slog.Info("shutdown complete")
	return nil
}

type stoppable interface {
	Stop(ctx context.Context) error
}

func stopServer(s stoppable, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports a serve error.
// It exits when an error arrives, the channel closes, or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
