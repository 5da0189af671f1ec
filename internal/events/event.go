package events

import (
	"time"

	"github.com/serroba/shorturl-go/internal/shortener"
)

const TopicLinkCreated = "link.created"

// LinkCreatedEvent is emitted after a new short link is stored.
type LinkCreatedEvent struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortURL    string    `json:"shortUrl"`
	Description string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewLinkCreatedEvent builds the event for link.
func NewLinkCreatedEvent(link *shortener.Link) *LinkCreatedEvent {
	return &LinkCreatedEvent{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Description: link.Description,
		CreatedAt:   link.CreatedAt,
	}
}

// Link converts the event back into the stored link.
func (e *LinkCreatedEvent) Link() *shortener.Link {
	return &shortener.Link{
		ID:          e.ID,
		OriginalURL: e.OriginalURL,
		ShortURL:    e.ShortURL,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
