package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ExternalIdentity is the normalized provider profile. AvatarURL is already
// resolved to a full CDN URL, or nil when the user has no avatar.
type ExternalIdentity struct {
	ExternalID string
	Username   string
	Email      string
	AvatarURL  *string
}

// FetchIdentity resolves an access token to the provider profile behind it.
// A profile without an email fails with ErrIncompleteIdentity.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (*ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseRejection(resp.StatusCode, bodyBytes)
	}

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.Unmarshal(bodyBytes, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	if profile.Email == "" {
		return nil, ErrIncompleteIdentity
	}

	identity := &ExternalIdentity{
		ExternalID: profile.ID,
		Username:   profile.Username,
		Email:      profile.Email,
	}
	if profile.Avatar != "" {
		avatarURL := fmt.Sprintf(avatarURLFormat, profile.ID, profile.Avatar)
		identity.AvatarURL = &avatarURL
	}

	return identity, nil
}
