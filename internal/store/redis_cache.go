package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-go/internal/shortener"
)

// LinkCache stores links in Redis hashes keyed by short URL.
type LinkCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewLinkCache creates a new Redis link cache. A zero ttl keeps entries forever.
func NewLinkCache(client redis.Cmdable, ttl time.Duration) *LinkCache {
	return &LinkCache{
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// Get returns the cached link for shortURL, or shortener.ErrNotFound on a miss.
func (c *LinkCache) Get(ctx context.Context, shortURL string) (*shortener.Link, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+shortURL).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := &shortener.Link{
		OriginalURL: result["original_url"],
		ShortURL:    result["short_url"],
		Description: result["description"],
	}

	if id, err := strconv.ParseInt(result["id"], 10, 64); err == nil {
		link.ID = id
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		link.CreatedAt = time.Unix(0, nanos).UTC()
	}

	return link, nil
}

// Put writes link into the cache.
func (c *LinkCache) Put(ctx context.Context, link *shortener.Link) error {
	pipe := c.client.Pipeline()
	key := c.prefix + link.ShortURL

	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           link.ID,
		"original_url": link.OriginalURL,
		"short_url":    link.ShortURL,
		"description":  link.Description,
		"created_at":   link.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, err := pipe.Exec(ctx)

	return err
}

// RedisCacheRepository wraps a shortener.Repository with Redis caching for short URL lookups.
type RedisCacheRepository struct {
	store shortener.Repository
	cache *LinkCache
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(store shortener.Repository, cache *LinkCache) *RedisCacheRepository {
	return &RedisCacheRepository{
		store: store,
		cache: cache,
	}
}

// FindByOriginalURL is not cached; dedup must see the store's current state.
func (r *RedisCacheRepository) FindByOriginalURL(ctx context.Context, url string) (*shortener.Link, error) {
	return r.store.FindByOriginalURL(ctx, url)
}

// FindByShortURL checks the cache first and populates it on a miss.
// Misses are not cached, so codes issued later resolve immediately.
func (r *RedisCacheRepository) FindByShortURL(ctx context.Context, shortURL string) (*shortener.Link, error) {
	if link, err := r.cache.Get(ctx, shortURL); err == nil {
		return link, nil
	}

	link, err := r.store.FindByShortURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Put(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) InsertLink(
	ctx context.Context, originalURL, shortURL, description string,
) (*shortener.Link, error) {
	return r.store.InsertLink(ctx, originalURL, shortURL, description)
}

func (r *RedisCacheRepository) ListRecent(ctx context.Context, limit int) ([]shortener.Link, error) {
	return r.store.ListRecent(ctx, limit)
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
