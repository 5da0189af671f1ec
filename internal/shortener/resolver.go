package shortener

import (
	"context"
)

// Resolver maps short codes back to their original URLs.
type Resolver struct {
	store     Repository
	generator *Generator
}

// NewResolver creates a new redirect resolver.
func NewResolver(store Repository, generator *Generator) *Resolver {
	return &Resolver{
		store:     store,
		generator: generator,
	}
}

// Resolve returns the original URL for code, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrNotFound
	}

	link, err := r.store.FindByShortURL(ctx, r.generator.ShortURL(code))
	if err != nil {
		return "", err
	}

	return link.OriginalURL, nil
}
