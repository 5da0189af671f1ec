package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/shortener"
)

const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository and accounts.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects to dsn, applies migrations and returns the store.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}

	err = Migrate(ctx, db, "postgres")
	_ = db.Close()

	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewPostgresStore(pool), nil
}

func (p *PostgresStore) FindByOriginalURL(ctx context.Context, url string) (*shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		WHERE original_url = $1
		ORDER BY id ASC
		LIMIT 1
	`

	return scanPgLink(p.pool.QueryRow(ctx, query, url))
}

func (p *PostgresStore) FindByShortURL(ctx context.Context, shortURL string) (*shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		WHERE short_url = $1
	`

	return scanPgLink(p.pool.QueryRow(ctx, query, shortURL))
}

func (p *PostgresStore) InsertLink(
	ctx context.Context, originalURL, shortURL, description string,
) (*shortener.Link, error) {
	query := `
		INSERT INTO urls (original_url, short_url, description)
		VALUES ($1, $2, $3)
		RETURNING id, original_url, short_url, description, created_at
	`

	link, err := scanPgLink(p.pool.QueryRow(ctx, query, originalURL, shortURL, nullableString(description)))
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, shortener.ErrShortURLTaken
		}

		return nil, err
	}

	return link, nil
}

func (p *PostgresStore) ListRecent(ctx context.Context, limit int) ([]shortener.Link, error) {
	query := `
		SELECT id, original_url, short_url, description, created_at
		FROM urls
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	links := make([]shortener.Link, 0, max(limit, 0))

	for rows.Next() {
		link, err := scanPgLink(rows)
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

func (p *PostgresStore) FindByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var account accounts.Account

	err := p.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}

		return nil, fmt.Errorf("find account: %w", err)
	}

	return &account, nil
}

func (p *PostgresStore) InsertAccount(ctx context.Context, username, passwordHash string) (*accounts.Account, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`

	var account accounts.Account

	err := p.pool.QueryRow(ctx, query, username, passwordHash).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, accounts.ErrDuplicateUsername
		}

		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &account, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func scanPgLink(row pgx.Row) (*shortener.Link, error) {
	var (
		link        shortener.Link
		description *string
	)

	err := row.Scan(&link.ID, &link.OriginalURL, &link.ShortURL, &description, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("scan link: %w", err)
	}

	if description != nil {
		link.Description = *description
	}

	return &link, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
