// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/memohub/memo/internal/auth"
	"github.com/memohub/memo/internal/store"
)

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(ctx context.Context) (string, func(), error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("memo_test"),
		postgres.WithUsername("memo"),
		postgres.WithPassword("memo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", nil, err
	}

	return connStr, func() { _ = container.Terminate(ctx) }, nil
}

var _ = Describe("Store", func() {
	var (
		ctx     context.Context
		s       *store.Store
		cleanup func()
	)

	BeforeEach(func() {
		ctx = context.Background()

		connStr, stop, err := startPostgres(ctx)
		Expect(err).NotTo(HaveOccurred())
		cleanup = stop

		migrator, err := store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())

		s, err = store.Open(ctx, connStr, 3)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
		if cleanup != nil {
			cleanup()
		}
	})

	It("answers pings", func() {
		Expect(s.Ping(ctx)).To(Succeed())
	})

	Describe("Users", func() {
		It("stores and retrieves a user", func() {
			user, err := auth.NewUser("alice", "$argon2id$hash")
			Expect(err).NotTo(HaveOccurred())
			user.CreatedAt = user.CreatedAt.Truncate(time.Microsecond)

			Expect(s.Users().Create(ctx, user)).To(Succeed())

			stored, err := s.Users().GetByUsername(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ID).To(Equal(user.ID))
			Expect(stored.PasswordHash).To(Equal("$argon2id$hash"))
			Expect(stored.CreatedAt).To(BeTemporally("==", user.CreatedAt))
		})

		It("rejects a second user with the same username", func() {
			first, err := auth.NewUser("bob1", "hash-one")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Users().Create(ctx, first)).To(Succeed())

			second, err := auth.NewUser("bob1", "hash-two")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Users().Create(ctx, second)).To(MatchError(auth.ErrDuplicateUsername))

			stored, err := s.Users().GetByUsername(ctx, "bob1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).To(Equal("hash-one"))
		})

		It("reports missing users as not found", func() {
			_, err := s.Users().GetByUsername(ctx, "ghost")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})
})
