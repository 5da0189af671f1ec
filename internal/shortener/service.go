package shortener

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxAttempts bounds the number of short URL candidates tried per registration.
const DefaultMaxAttempts = 10

// Service registers links, deduplicating by original URL.
type Service struct {
	store       Repository
	generator   *Generator
	maxAttempts int
}

// NewService creates a new link registration service.
// A non-positive maxAttempts falls back to DefaultMaxAttempts.
func NewService(store Repository, generator *Generator, maxAttempts int) *Service {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Service{
		store:       store,
		generator:   generator,
		maxAttempts: maxAttempts,
	}
}

// Register returns the link for originalURL, creating it when none exists.
// The description is only stored for new links. created reports whether a
// new link was stored.
func (s *Service) Register(ctx context.Context, originalURL, description string) (*Link, bool, error) {
	if originalURL == "" {
		return nil, false, ErrURLRequired
	}

	existing, err := s.store.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("find by original url: %w", err)
	}

	for range s.maxAttempts {
		candidate := s.generator.Generate()

		_, err = s.store.FindByShortURL(ctx, candidate)
		if err == nil {
			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, false, fmt.Errorf("find by short url: %w", err)
		}

		link, err := s.store.InsertLink(ctx, originalURL, candidate, description)
		if errors.Is(err, ErrShortURLTaken) {
			continue
		}

		if err != nil {
			return nil, false, fmt.Errorf("insert link: %w", err)
		}

		return link, true, nil
	}

	return nil, false, fmt.Errorf("%w: %d attempts", ErrExhaustedRetries, s.maxAttempts)
}

// Latest returns the most recently registered links.
func (s *Service) Latest(ctx context.Context, limit int) ([]Link, error) {
	links, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent links: %w", err)
	}

	return links, nil
}
