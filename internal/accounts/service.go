package accounts

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Hasher hashes and verifies passwords. Compare returns ErrPasswordMismatch
// for a wrong password and other errors for unusable hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed tokens for authenticated users.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// Service handles account registration and login.
type Service struct {
	store  Repository
	hasher Hasher
	tokens TokenIssuer

	// dummyHash is compared against when the account does not exist.
	dummyHash string
}

// NewService creates a new account service.
func NewService(store Repository, hasher Hasher, tokens TokenIssuer) *Service {
	dummyHash, _ := hasher.Hash("not-a-real-password")

	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
	}
}

// Register validates the input, hashes the password and stores the account.
func (s *Service) Register(ctx context.Context, username, password string) (*Account, error) {
	if err := validate(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.store.InsertAccount(ctx, username, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, err
		}

		return nil, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

// Login verifies the credentials and returns a signed token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("find account: %w", err)
		}

		// Burn the same bcrypt work as a real comparison.
		_ = s.hasher.Compare(s.dummyHash, password)

		return "", ErrInvalidCredentials
	}

	if err = s.hasher.Compare(account.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

func validate(username, password string) error {
	var problems []string

	if utf8.RuneCountInString(username) < MinUsernameLength {
		problems = append(problems, fmt.Sprintf("username must be at least %d characters", MinUsernameLength))
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if len(password) > MaxPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}
