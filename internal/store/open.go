package store

import (
	"context"
	"strings"

	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
)

// MemoryURL selects the in-memory store.
const MemoryURL = "memory"

// Store is a database holding both links and accounts.
type Store interface {
	shortener.Repository
	accounts.Repository
	Ping(ctx context.Context) error
	Shutdown() error
}

// Open picks a backend from databaseURL: "memory", a postgres:// or
// postgresql:// DSN, or otherwise a SQLite file path.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case databaseURL == MemoryURL:
		return NewMemoryStore(), nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return OpenPostgres(ctx, databaseURL)
	default:
		return OpenSQLite(ctx, databaseURL)
	}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
