package shortener

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("link not found")
	ErrShortURLTaken    = errors.New("short url already taken")
	ErrURLRequired      = errors.New("url is required")
	ErrExhaustedRetries = errors.New("exhausted short code attempts")
)

// Link represents a registered short link.
type Link struct {
	ID          int64
	OriginalURL string
	ShortURL    string
	Description string
	CreatedAt   time.Time
}

// Repository defines the storage operations for links.
type Repository interface {
	// FindByOriginalURL returns the earliest link registered for url.
	FindByOriginalURL(ctx context.Context, url string) (*Link, error)
	FindByShortURL(ctx context.Context, shortURL string) (*Link, error)
	// InsertLink stores a new link. Returns ErrShortURLTaken if shortURL is already in use.
	InsertLink(ctx context.Context, originalURL, shortURL, description string) (*Link, error)
	// ListRecent returns at most limit links, newest first.
	ListRecent(ctx context.Context, limit int) ([]Link, error)
}
