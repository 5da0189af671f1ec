package accounts

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	// MaxPasswordLength is the longest input bcrypt accepts.
	MaxPasswordLength = 72
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch is returned by Hasher.Compare when the password is wrong.
	ErrPasswordMismatch = errors.New("password does not match")
)

// Account represents a registered user.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Repository defines the storage operations for accounts.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// InsertAccount stores a new account. Returns ErrDuplicateUsername if the username is taken.
	InsertAccount(ctx context.Context, username, passwordHash string) (*Account, error)
}

// ValidationError lists every problem found in registration input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid account input: " + strings.Join(e.Problems, "; ")
}
