package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
	"github.com/serroba/shorturl-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cachedShortURL = "http://localhost:3000/s/cached1"

type cachedRepository struct {
	*store.RedisCacheRepository
	accounts.Repository
}

func newTestCache(t *testing.T, ttl time.Duration) (*store.LinkCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return store.NewLinkCache(client, ttl), server
}

func TestLinkCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns not found", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)

		_, err := cache.Get(ctx, cachedShortURL)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("put then get round trips the link", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)
		link := &shortener.Link{
			ID:          3,
			OriginalURL: "https://example.com",
			ShortURL:    cachedShortURL,
			Description: "test",
			CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		}

		require.NoError(t, cache.Put(ctx, link))

		got, err := cache.Get(ctx, cachedShortURL)

		require.NoError(t, err)
		assert.Equal(t, link, got)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		cache, server := newTestCache(t, time.Minute)

		require.NoError(t, cache.Put(ctx, &shortener.Link{OriginalURL: "https://example.com", ShortURL: cachedShortURL}))
		server.FastForward(2 * time.Minute)

		_, err := cache.Get(ctx, cachedShortURL)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("zero ttl keeps entries", func(t *testing.T) {
		cache, server := newTestCache(t, 0)

		require.NoError(t, cache.Put(ctx, &shortener.Link{OriginalURL: "https://example.com", ShortURL: cachedShortURL}))

		assert.Equal(t, time.Duration(0), server.TTL("link:"+cachedShortURL))
	})
}

func TestRedisCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("satisfies the repository contract", func(t *testing.T) {
		runRepositoryContract(t, func(t *testing.T) repository {
			cache, _ := newTestCache(t, time.Minute)
			mem := store.NewMemoryStore()

			return cachedRepository{store.NewRedisCacheRepository(mem, cache), mem}
		})
	})

	t.Run("populates the cache on lookup", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)
		mem := store.NewMemoryStore()
		repo := store.NewRedisCacheRepository(mem, cache)

		_, err := mem.InsertLink(ctx, "https://example.com", cachedShortURL, "")
		require.NoError(t, err)

		_, err = repo.FindByShortURL(ctx, cachedShortURL)
		require.NoError(t, err)

		cached, err := cache.Get(ctx, cachedShortURL)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", cached.OriginalURL)
	})

	t.Run("serves warmed entries without the store", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)
		repo := store.NewRedisCacheRepository(store.NewMemoryStore(), cache)

		require.NoError(t, cache.Put(ctx, &shortener.Link{OriginalURL: "https://example.com", ShortURL: cachedShortURL}))

		link, err := repo.FindByShortURL(ctx, cachedShortURL)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.OriginalURL)
	})

	t.Run("does not cache misses", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)
		mem := store.NewMemoryStore()
		repo := store.NewRedisCacheRepository(mem, cache)

		_, err := repo.FindByShortURL(ctx, cachedShortURL)
		require.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = mem.InsertLink(ctx, "https://example.com", cachedShortURL, "")
		require.NoError(t, err)

		link, err := repo.FindByShortURL(ctx, cachedShortURL)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.OriginalURL)
	})
}
