package auth_test

import (
	"testing"

	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash never equals the password", func(t *testing.T) {
		hash, err := hasher.Hash("longpass")

		require.NoError(t, err)
		assert.NotEqual(t, "longpass", hash)
	})

	t.Run("compare accepts the right password", func(t *testing.T) {
		hash, err := hasher.Hash("longpass")
		require.NoError(t, err)

		assert.NoError(t, hasher.Compare(hash, "longpass"))
	})

	t.Run("compare rejects the wrong password", func(t *testing.T) {
		hash, err := hasher.Hash("longpass")
		require.NoError(t, err)

		assert.ErrorIs(t, hasher.Compare(hash, "wrongpass"), accounts.ErrPasswordMismatch)
	})

	t.Run("malformed hash is not a mismatch", func(t *testing.T) {
		err := hasher.Compare("not-a-bcrypt-hash", "longpass")

		require.Error(t, err)
		assert.NotErrorIs(t, err, accounts.ErrPasswordMismatch)
	})
}
