package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repository is implemented by every backing store.
type repository interface {
	shortener.Repository
	accounts.Repository
}

func runRepositoryContract(t *testing.T, newStore func(t *testing.T) repository) {
	t.Helper()

	ctx := context.Background()

	t.Run("insert and find link by short url", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertLink(ctx, "https://example.com", "http://localhost:3000/s/abc1234", "test")
		require.NoError(t, err)
		assert.Positive(t, created.ID)

		got, err := s.FindByShortURL(ctx, "http://localhost:3000/s/abc1234")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.Equal(t, "test", got.Description)
	})

	t.Run("find link by original url", func(t *testing.T) {
		s := newStore(t)

		first, err := s.InsertLink(ctx, "https://example.com", "http://localhost:3000/s/first01", "")
		require.NoError(t, err)
		_, err = s.InsertLink(ctx, "https://example.com", "http://localhost:3000/s/second2", "")
		require.NoError(t, err)

		got, err := s.FindByOriginalURL(ctx, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, first.ShortURL, got.ShortURL)
		assert.Empty(t, got.Description)
	})

	t.Run("missing link returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)

		_, err := s.FindByShortURL(ctx, "http://localhost:3000/s/missing")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = s.FindByOriginalURL(ctx, "https://nowhere.example")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("duplicate short url returns ErrShortURLTaken", func(t *testing.T) {
		s := newStore(t)

		_, err := s.InsertLink(ctx, "https://a.example", "http://localhost:3000/s/dupdup1", "")
		require.NoError(t, err)

		_, err = s.InsertLink(ctx, "https://b.example", "http://localhost:3000/s/dupdup1", "")

		assert.ErrorIs(t, err, shortener.ErrShortURLTaken)
	})

	t.Run("list recent returns newest first bounded by limit", func(t *testing.T) {
		s := newStore(t)

		for i := 1; i <= 3; i++ {
			_, err := s.InsertLink(ctx,
				fmt.Sprintf("https://example.com/%d", i),
				fmt.Sprintf("http://localhost:3000/s/link%03d", i),
				"",
			)
			require.NoError(t, err)
		}

		links, err := s.ListRecent(ctx, 2)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/3", links[0].OriginalURL)
		assert.Equal(t, "https://example.com/2", links[1].OriginalURL)
	})

	t.Run("list recent on empty store returns empty slice", func(t *testing.T) {
		s := newStore(t)

		links, err := s.ListRecent(ctx, 20)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("insert and find account", func(t *testing.T) {
		s := newStore(t)

		created, err := s.InsertAccount(ctx, "alice", "hash")
		require.NoError(t, err)
		assert.Positive(t, created.ID)

		got, err := s.FindByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("duplicate username returns ErrDuplicateUsername", func(t *testing.T) {
		s := newStore(t)

		_, err := s.InsertAccount(ctx, "alice", "hash")
		require.NoError(t, err)

		_, err = s.InsertAccount(ctx, "alice", "other")

		assert.ErrorIs(t, err, accounts.ErrDuplicateUsername)
	})

	t.Run("missing account returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)

		_, err := s.FindByUsername(ctx, "nobody")

		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})
}
