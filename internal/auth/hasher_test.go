// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/memohub/memo/internal/auth"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces PHC formatted hash", func(t *testing.T) {
		hash, err := hasher.Hash("secret123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
		assert.NotContains(t, hash, "secret123")
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("samepass1")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepass1")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash("Correct123")
		require.NoError(t, err)

		ok, err := hasher.Verify("Correct123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := hasher.Hash("Correct123")
		require.NoError(t, err)

		ok, err := hasher.Verify("correct123", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hashes return error", func(t *testing.T) {
		tests := []struct {
			name string
			hash string
		}{
			{"not a hash", "not-a-valid-hash"},
			{"wrong algorithm", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
			{"bad version", "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
			{"unsupported version", "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
			{"bad parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
			{"bad salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA"},
			{"bad key", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!"},
			{"threads overflow", "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA"},
			{"empty key", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ok, err := hasher.Verify("password", tt.hash)
				require.Error(t, err)
				assert.False(t, ok)
			})
		}
	})
}

func TestArgon2idHasher_VerifyBcrypt(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	legacy, err := bcrypt.GenerateFromPassword([]byte("Legacy123"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("matching password verifies", func(t *testing.T) {
		ok, err := hasher.Verify("Legacy123", string(legacy))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatched password fails without error", func(t *testing.T) {
		ok, err := hasher.Verify("Legacy124", string(legacy))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("truncated bcrypt hash returns error", func(t *testing.T) {
		_, err := hasher.Verify("Legacy123", "$2a$10$short")
		assert.Error(t, err)
	})
}
