package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl-go/internal/events"
	"github.com/serroba/shorturl-go/internal/messaging"
	"github.com/serroba/shorturl-go/internal/shortener"
	"go.uber.org/zap"
)

// LinkRegistrar creates or returns links for original URLs.
type LinkRegistrar interface {
	Register(ctx context.Context, originalURL, description string) (*shortener.Link, bool, error)
	Latest(ctx context.Context, limit int) ([]shortener.Link, error)
}

// LinkResolver maps short codes to original URLs.
type LinkResolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// LinkHandler handles link shortening, redirects and listings.
type LinkHandler struct {
	links              LinkRegistrar
	resolver           LinkResolver
	publishLinkCreated messaging.Publish[events.LinkCreatedEvent]
	latestLimit        int
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	links LinkRegistrar,
	resolver LinkResolver,
	publishLinkCreated messaging.Publish[events.LinkCreatedEvent],
	latestLimit int,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		links:              links,
		resolver:           resolver,
		publishLinkCreated: publishLinkCreated,
		latestLimit:        latestLimit,
		logger:             logger,
	}
}

func (h *LinkHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	link, created, err := h.links.Register(ctx, req.Body.URL, req.Body.Description)
	if err != nil {
		if errors.Is(err, shortener.ErrURLRequired) {
			return nil, huma.Error400BadRequest("URL is required")
		}

		h.logger.Error("failed to register link", zap.String("originalUrl", req.Body.URL), zap.Error(err))

		return nil, huma.Error500InternalServerError("Error al crear la URL corta")
	}

	resp := &CreateShortURLResponse{
		Status: http.StatusOK,
		Body:   newLinkBody(link),
	}

	if created {
		resp.Status = http.StatusCreated
		resp.Location = link.ShortURL

		if err = h.publishLinkCreated(ctx, events.NewLinkCreatedEvent(link)); err != nil {
			h.logger.Error("failed to publish link created event",
				zap.String("shortUrl", link.ShortURL),
				zap.Error(err),
			)
		}
	}

	return resp, nil
}

func (h *LinkHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	originalURL, err := h.resolver.Resolve(ctx, req.Code)
	if err != nil {
		if !errors.Is(err, shortener.ErrNotFound) {
			h.logger.Error("failed to resolve short url", zap.String("code", req.Code), zap.Error(err))
		}

		return nil, huma.Error404NotFound("404")
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: originalURL,
	}, nil
}

func (h *LinkHandler) LatestURLs(ctx context.Context, _ *struct{}) (*LatestURLsResponse, error) {
	links, err := h.links.Latest(ctx, h.latestLimit)
	if err != nil {
		h.logger.Error("failed to list latest links", zap.Error(err))

		return nil, huma.Error500InternalServerError("Error al obtener las últimas URLs")
	}

	resp := &LatestURLsResponse{Body: make([]LinkBody, 0, len(links))}
	for i := range links {
		resp.Body = append(resp.Body, newLinkBody(&links[i]))
	}

	return resp, nil
}
