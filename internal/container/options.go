package container

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingJWTSecret is returned when no token signing secret is configured.
var ErrMissingJWTSecret = errors.New("jwt secret is required (--jwt-secret or SERVICE_JWT_SECRET)")

// Options holds the service configuration. humacli fills it from flags and
// SERVICE_-prefixed environment variables.
type Options struct {
	Port        int    `default:"3000"              help:"Port to listen on, also used in short URLs" short:"p"`
	SiteURL     string `default:"http://localhost"  help:"Public base URL of the service"`
	CodeLength  int    `default:"7"                 help:"Length of generated short codes"           short:"c"`
	MaxAttempts int    `default:"10"                help:"Short code collision retry bound"`
	DatabaseURL string `default:"./urlshortener.db" help:"SQLite file path, postgres:// DSN or memory"`
	RedisAddr   string `default:""                  help:"Redis address; enables caching and events"  short:"r"`
	CacheTTL    string `default:"24h"               help:"Lifetime of cached redirects"`
	JWTSecret   string `default:""                  help:"Token signing secret (required)"`
	TokenTTL    string `default:"2h"                help:"Lifetime of issued tokens"`
	LogFormat   string `default:"json"              help:"Log output format: json or console"`
	LatestLimit int    `default:"20"                help:"Number of links returned by /latest-urls"`
}

// Validate checks settings that have no usable default.
func (o *Options) Validate() error {
	if o.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	if _, err := o.CacheTTLDuration(); err != nil {
		return err
	}

	if _, err := o.TokenTTLDuration(); err != nil {
		return err
	}

	return nil
}

// CacheTTLDuration parses CacheTTL.
func (o *Options) CacheTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(o.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", o.CacheTTL, err)
	}

	return d, nil
}

// TokenTTLDuration parses TokenTTL.
func (o *Options) TokenTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(o.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid token ttl %q: %w", o.TokenTTL, err)
	}

	return d, nil
}
