package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// NewConfig returns the API configuration. Response bodies carry no $schema
// link so their JSON matches the documented shapes exactly.
func NewConfig(title, version string) huma.Config {
	config := huma.DefaultConfig(title, version)
	config.CreateHooks = nil

	return config
}

// RegisterRoutes registers the link and account routes.
func RegisterRoutes(api huma.API, links *LinkHandler, accounts *AccountHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/createshorturl",
		Summary:       "Create short URL",
		Description:   "Returns the existing link for a known URL, otherwise creates a new one.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/s/{code}",
		Summary:       "Redirect to original URL",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
	}, links.RedirectToURL)

	huma.Register(api, huma.Operation{
		OperationID: "latest-urls",
		Method:      http.MethodGet,
		Path:        "/latest-urls",
		Summary:     "List the most recent links",
		Tags:        []string{"URLs"},
	}, links.LatestURLs)

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register an account",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, accounts.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Log in and receive a token",
		Tags:        []string{"Accounts"},
	}, accounts.Login)
}
