package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository and accounts.Repository.
type MemoryStore struct {
	mu         sync.RWMutex
	links      []shortener.Link            // insertion order, ids ascending
	byShortURL map[string]int              // shortURL -> index into links
	accounts   map[string]accounts.Account // username -> account
	nextLinkID int64
	nextUserID int64
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byShortURL: make(map[string]int),
		accounts:   make(map[string]accounts.Account),
	}
}

func (m *MemoryStore) FindByOriginalURL(_ context.Context, url string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.links {
		if m.links[i].OriginalURL == url {
			link := m.links[i]

			return &link, nil
		}
	}

	return nil, shortener.ErrNotFound
}

func (m *MemoryStore) FindByShortURL(_ context.Context, shortURL string) (*shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byShortURL[shortURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	link := m.links[idx]

	return &link, nil
}

func (m *MemoryStore) InsertLink(_ context.Context, originalURL, shortURL, description string) (*shortener.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byShortURL[shortURL]; ok {
		return nil, shortener.ErrShortURLTaken
	}

	m.nextLinkID++

	link := shortener.Link{
		ID:          m.nextLinkID,
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	m.links = append(m.links, link)
	m.byShortURL[shortURL] = len(m.links) - 1

	return &link, nil
}

func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]shortener.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		return []shortener.Link{}, nil
	}

	n := min(limit, len(m.links))
	result := make([]shortener.Link, 0, n)

	for i := len(m.links) - 1; i >= len(m.links)-n; i-- {
		result = append(result, m.links[i])
	}

	return result, nil
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (*accounts.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[username]
	if !ok {
		return nil, accounts.ErrNotFound
	}

	return &account, nil
}

// InsertAccount stores a new account.
func (m *MemoryStore) InsertAccount(_ context.Context, username, passwordHash string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[username]; ok {
		return nil, accounts.ErrDuplicateUsername
	}

	m.nextUserID++

	account := accounts.Account{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	m.accounts[username] = account

	return &account, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Shutdown is a no-op for MemoryStore.
func (m *MemoryStore) Shutdown() error {
	return nil
}
