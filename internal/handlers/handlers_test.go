package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/auth"
	"github.com/serroba/shorturl-go/internal/events"
	"github.com/serroba/shorturl-go/internal/handlers"
	"github.com/serroba/shorturl-go/internal/messaging"
	"github.com/serroba/shorturl-go/internal/shortener"
	"github.com/serroba/shorturl-go/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "test-secret"
	testPrefix = "http://localhost:3000"
)

var errBoom = errors.New("boom")

type testDeps struct {
	links     handlers.LinkRegistrar
	resolver  handlers.LinkResolver
	accounts  handlers.AccountService
	publish   messaging.Publish[events.LinkCreatedEvent]
	generator *shortener.Generator
	tokens    *auth.JWTIssuer
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	memStore := store.NewMemoryStore()

	gen, err := shortener.NewGenerator("http://localhost", 3000, 7)
	require.NoError(t, err)

	tokens, err := auth.NewJWTIssuer(testSecret, auth.DefaultTokenTTL)
	require.NoError(t, err)

	return &testDeps{
		links:     shortener.NewService(memStore, gen, shortener.DefaultMaxAttempts),
		resolver:  shortener.NewResolver(memStore, gen),
		accounts:  accounts.NewService(memStore, auth.NewBcryptHasher(4), tokens),
		publish:   messaging.NoopPublish[events.LinkCreatedEvent](),
		generator: gen,
		tokens:    tokens,
	}
}

func (d *testDeps) api(t *testing.T) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t, handlers.NewConfig("URL Shortener", "test"))

	handlers.RegisterRoutes(api,
		handlers.NewLinkHandler(d.links, d.resolver, d.publish, 20, zap.NewNop()),
		handlers.NewAccountHandler(d.accounts, zap.NewNop()),
	)

	return api
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v))

	return v
}

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

type failingLinks struct {
	registerErr error
	latestErr   error
}

func (f *failingLinks) Register(_ context.Context, _, _ string) (*shortener.Link, bool, error) {
	return nil, false, f.registerErr
}

func (f *failingLinks) Latest(_ context.Context, _ int) ([]shortener.Link, error) {
	return nil, f.latestErr
}

type failingResolver struct{}

func (failingResolver) Resolve(_ context.Context, _ string) (string, error) {
	return "", errBoom
}

type failingAccounts struct{}

func (failingAccounts) Register(_ context.Context, _, _ string) (*accounts.Account, error) {
	return nil, errBoom
}

func (failingAccounts) Login(_ context.Context, _, _ string) (string, error) {
	return "", errBoom
}

func requireStatus(t *testing.T, want, got int, body string) {
	t.Helper()

	require.Equal(t, want, got, "body: %s", body)
}
