package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
)

// SQLiteStore is a SQLite implementation of shortener.Repository and accounts.Repository
// backed by a single local database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serialises writers; one connection avoids SQLITE_BUSY between pool members.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = Migrate(ctx, db, "sqlite3"); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// sqliteDSN builds a file: URI for path. The path is escaped so that
// characters like ? and # stay part of the file name.
func sqliteDSN(path string) string {
	escaped := strings.ReplaceAll(url.PathEscape(path), "%2F", "/")

	return "file:" + escaped + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

func (s *SQLiteStore) FindByOriginalURL(ctx context.Context, url string) (*shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		WHERE original_url = ?
		ORDER BY id ASC
		LIMIT 1
	`

	return scanLink(s.db.QueryRowContext(ctx, query, url))
}

func (s *SQLiteStore) FindByShortURL(ctx context.Context, shortURL string) (*shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		WHERE short_url = ?
	`

	return scanLink(s.db.QueryRowContext(ctx, query, shortURL))
}

func (s *SQLiteStore) InsertLink(
	ctx context.Context, originalURL, shortURL, description string,
) (*shortener.Link, error) {
	query := `
		INSERT INTO urls (original_url, short_url, description, created_at)
		VALUES (?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, query, originalURL, shortURL, nullString(description), createdAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, shortener.ErrShortURLTaken
		}

		return nil, fmt.Errorf("insert link: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read link id: %w", err)
	}

	return &shortener.Link{
		ID:          id,
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		Description: description,
		CreatedAt:   createdAt,
	}, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	links := make([]shortener.Link, 0, max(limit, 0))

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, *link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return links, nil
}

func (s *SQLiteStore) FindByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`

	var account accounts.Account

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}

		return nil, fmt.Errorf("find account: %w", err)
	}

	return &account, nil
}

func (s *SQLiteStore) InsertAccount(ctx context.Context, username, passwordHash string) (*accounts.Account, error) {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, query, username, passwordHash, createdAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, accounts.ErrDuplicateUsername
		}

		return nil, fmt.Errorf("insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read account id: %w", err)
	}

	return &accounts.Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*shortener.Link, error) {
	var (
		link        shortener.Link
		description sql.NullString
	)

	err := row.Scan(&link.ID, &link.OriginalURL, &link.ShortURL, &description, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("scan link: %w", err)
	}

	link.Description = description.String

	return &link, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
