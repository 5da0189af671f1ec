package events

import (
	"context"
	"fmt"

	"github.com/serroba/shorturl-go/internal/messaging"
	"github.com/serroba/shorturl-go/internal/shortener"
	"go.uber.org/zap"
)

// LinkWriter stores links for fast short URL lookups.
type LinkWriter interface {
	Put(ctx context.Context, link *shortener.Link) error
}

// NewCacheWarmer returns a handler that writes each created link into cache,
// so the first redirect for a fresh code is served without a database read.
func NewCacheWarmer(cache LinkWriter, logger *zap.Logger) messaging.Handler[LinkCreatedEvent] {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		if event.ShortURL == "" {
			logger.Warn("link created event without short url", zap.Int64("id", event.ID))

			return nil
		}

		if err := cache.Put(ctx, event.Link()); err != nil {
			return fmt.Errorf("warm cache for %s: %w", event.ShortURL, err)
		}

		logger.Debug("cache warmed", zap.String("shortUrl", event.ShortURL))

		return nil
	}
}
