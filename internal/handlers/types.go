package handlers

import "github.com/serroba/shorturl-go/internal/shortener"

// LinkBody is the JSON representation of a link.
type LinkBody struct {
	OriginalURL string `doc:"The original URL"     example:"https://example.com"             json:"originalUrl"`
	ShortURL    string `doc:"The full short URL"   example:"http://localhost:3000/s/abc1234" json:"shortUrl"`
	Description string `doc:"Optional description" example:"test"                            json:"descripcion"`
}

func newLinkBody(link *shortener.Link) LinkBody {
	return LinkBody{
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Description: link.Description,
	}
}

// CreateShortURLRequest is the request for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		_           struct{} `additionalProperties:"true" json:"-"`
		URL         string   `doc:"The URL to shorten"                  example:"https://example.com" json:"url,omitempty"`
		Description string   `doc:"Optional description for a new link" example:"test"                json:"descripcion,omitempty"`
	}
}

// CreateShortURLResponse is 201 with Location for a new link and 200 for an existing one.
type CreateShortURLResponse struct {
	Status   int
	Location string `doc:"The short URL of a new link" header:"Location"`
	Body     LinkBody
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// LatestURLsResponse lists the most recent links, newest first.
type LatestURLsResponse struct {
	Body []LinkBody
}

// CredentialsRequest is the request body for register and login.
type CredentialsRequest struct {
	Body struct {
		_        struct{} `additionalProperties:"true" json:"-"`
		Username string   `doc:"Account username" example:"alice"   json:"username,omitempty"`
		Password string   `doc:"Account password" example:"secret1" json:"password,omitempty"`
	}
}

// RegisterResponse confirms a registration. The message travels in the error field.
type RegisterResponse struct {
	Status int
	Body   struct {
		Message string `example:"Usuario registrado" json:"error"`
	}
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Body struct {
		Token string `doc:"Signed session token" json:"token"`
	}
}
