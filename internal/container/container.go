package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shorturl-go/internal/accounts"
	"github.com/serroba/shorturl-go/internal/auth"
	"github.com/serroba/shorturl-go/internal/events"
	"github.com/serroba/shorturl-go/internal/handlers"
	"github.com/serroba/shorturl-go/internal/health"
	"github.com/serroba/shorturl-go/internal/messaging"
	"github.com/serroba/shorturl-go/internal/middleware"
	"github.com/serroba/shorturl-go/internal/shortener"
	"github.com/serroba/shorturl-go/internal/store"
	"go.uber.org/zap"
)

const (
	apiTitle         = "URL Shortener"
	apiVersion       = "1.0.0"
	cacheWarmerGroup = "cache-warmer"
)

// RedisClient owns the shared Redis connection. It is only provided when
// a Redis address is configured.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the connection.
func (r *RedisClient) Shutdown() error {
	return r.Close()
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "console" {
			return zap.NewDevelopment()
		}

		return zap.NewProduction()
	})
}

// RedisPackage provides the Redis client when RedisAddr is set.
func RedisPackage(injector *do.Injector) {
	opts := do.MustInvoke[*Options](injector)
	if opts.RedisAddr == "" {
		return
	}

	do.Provide(injector, func(_ *do.Injector) (*RedisClient, error) {
		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// DatabasePackage provides the store selected by DatabaseURL.
func DatabasePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (store.Store, error) {
		opts := do.MustInvoke[*Options](i)

		db, err := store.Open(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		return db, nil
	})
}

// CachePackage provides the Redis link cache.
func CachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.LinkCache, error) {
		opts := do.MustInvoke[*Options](i)

		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, fmt.Errorf("link cache requires redis: %w", err)
		}

		ttl, err := opts.CacheTTLDuration()
		if err != nil {
			return nil, err
		}

		return store.NewLinkCache(client.Client, ttl), nil
	})
}

// RepositoryPackage provides the link and account repositories. Link
// lookups go through the Redis cache when Redis is configured.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		db := do.MustInvoke[store.Store](i)

		cache, err := do.Invoke[*store.LinkCache](i)
		if err != nil {
			return db, nil
		}

		return store.NewRedisCacheRepository(db, cache), nil
	})

	do.Provide(injector, func(i *do.Injector) (accounts.Repository, error) {
		return do.MustInvoke[store.Store](i), nil
	})
}

// ServicesPackage provides the link and account services.
func ServicesPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Generator, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewGenerator(opts.SiteURL, opts.Port, opts.CodeLength)
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*shortener.Generator](i),
			opts.MaxAttempts,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*shortener.Generator](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.JWTIssuer, error) {
		opts := do.MustInvoke[*Options](i)

		ttl, err := opts.TokenTTLDuration()
		if err != nil {
			return nil, err
		}

		return auth.NewJWTIssuer(opts.JWTSecret, ttl)
	})

	do.Provide(injector, func(i *do.Injector) (*accounts.Service, error) {
		return accounts.NewService(
			do.MustInvoke[accounts.Repository](i),
			auth.NewBcryptHasher(0),
			do.MustInvoke[*auth.JWTIssuer](i),
		), nil
	})
}

// PublisherPackage provides the link.created publish function. Without
// Redis, events are discarded.
func PublisherPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.LinkCreatedEvent], error) {
		if _, err := do.Invoke[*RedisClient](i); err != nil {
			return messaging.NoopPublish[events.LinkCreatedEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.LinkCreatedEvent](group.Publisher(), events.TopicLinkCreated), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{"Location", middleware.RequestIDHeader},
		}))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, handlers.NewConfig(apiTitle, apiVersion))
		api.UseMiddleware(middleware.RequestLogger(logger))

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[messaging.Publish[events.LinkCreatedEvent]](i),
			opts.LatestLimit,
			logger,
		)
		accountHandler := handlers.NewAccountHandler(do.MustInvoke[*accounts.Service](i), logger)

		handlers.RegisterRoutes(api, linkHandler, accountHandler)
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i)))

		return api, nil
	})
}

func healthCheckers(i *do.Injector) map[string]health.Checker {
	checkers := map[string]health.Checker{
		"database": do.MustInvoke[store.Store](i),
	}

	if client, err := do.Invoke[*RedisClient](i); err == nil {
		checkers["redis"] = health.NewRedisChecker(client.Client)
	}

	return checkers
}

// ConsumerGroupPackage provides the consumers that warm the redirect cache
// from link.created events.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, fmt.Errorf("consumer requires redis: %w", err)
		}

		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: cacheWarmerGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicLinkCreated,
			events.NewCacheWarmer(do.MustInvoke[*store.LinkCache](i), logger),
			logger,
		))

		return group, nil
	})
}
