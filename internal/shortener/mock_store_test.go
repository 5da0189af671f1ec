package shortener_test

import (
	"context"
	"errors"

	"github.com/serroba/shorturl-go/internal/shortener"
)

var errMock = errors.New("mock error")

// mockStore is a test double for shortener.Repository that can be configured to return errors.
type mockStore struct {
	findByOriginalErr error
	findByShortErr    error
	insertErrs        []error
	listErr           error
	shortLookups      int
	inserts           int
}

func (m *mockStore) FindByOriginalURL(_ context.Context, _ string) (*shortener.Link, error) {
	if m.findByOriginalErr != nil {
		return nil, m.findByOriginalErr
	}

	return nil, shortener.ErrNotFound
}

func (m *mockStore) FindByShortURL(_ context.Context, _ string) (*shortener.Link, error) {
	m.shortLookups++

	if m.findByShortErr != nil {
		return nil, m.findByShortErr
	}

	return nil, shortener.ErrNotFound
}

func (m *mockStore) InsertLink(_ context.Context, originalURL, shortURL, description string) (*shortener.Link, error) {
	m.inserts++

	if len(m.insertErrs) > 0 {
		err := m.insertErrs[0]
		m.insertErrs = m.insertErrs[1:]

		if err != nil {
			return nil, err
		}
	}

	return &shortener.Link{
		ID:          int64(m.inserts),
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		Description: description,
	}, nil
}

func (m *mockStore) ListRecent(_ context.Context, _ int) ([]shortener.Link, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	return []shortener.Link{}, nil
}

// takenStore reports every short URL as already taken.
type takenStore struct {
	mockStore
}

func (t *takenStore) FindByShortURL(_ context.Context, shortURL string) (*shortener.Link, error) {
	t.shortLookups++

	return &shortener.Link{ShortURL: shortURL}, nil
}
