// Package provider talks to the external identity provider (Discord): it
// exchanges single-use authorization codes for access tokens and resolves
// access tokens to user profiles. Both credentials are used once per
// sign-in attempt and never persisted or logged.
package provider

import (
	"net/http"
	"time"
)

const (
	// DefaultTokenURL is Discord's OAuth2 token endpoint.
	DefaultTokenURL = "https://discord.com/api/oauth2/token"

	// DefaultProfileURL is Discord's authenticated profile endpoint.
	DefaultProfileURL = "https://discord.com/api/users/@me"

	// avatarURLFormat builds a CDN avatar URL from user id and avatar hash.
	avatarURLFormat = "https://cdn.discordapp.com/avatars/%s/%s.png"
)

// Config holds the registered application credentials. They are read once
// at process start and passed in here; the client never consults ambient
// environment state per request.
type Config struct {
	ClientID     string
	ClientSecret string

	// TokenURL and ProfileURL default to the Discord endpoints and are
	// overridable for tests.
	TokenURL   string
	ProfileURL string
}

// Client is the outbound HTTP client for the identity provider.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a provider client. A nil httpClient gets a default with
// a conservative timeout; callers may also cancel per-request via context.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = DefaultProfileURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}
