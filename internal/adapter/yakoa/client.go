// Package yakoa wraps the Yakoa anti-infringement registration API.
package yakoa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrConflict is a duplicate-identifier rejection (HTTP 409). It is the only
// error class the protection flow retries.
var ErrConflict = errors.New("token identifier conflict")

// Media is one media item attached to a token registration.
type Media struct {
	MediaID string `json:"media_id"`
	URL     string `json:"url"`
}

// TokenRegistration is the registration request sent to Yakoa.
type TokenRegistration struct {
	TokenID   string                 `json:"id"`
	CreatorID string                 `json:"creator_id"`
	TxHash    string                 `json:"transaction_hash"`
	Metadata  map[string]interface{} `json:"metadata"`
	Media     []Media                `json:"media"`
}

// TokenResponse is Yakoa's reply to a successful registration.
type TokenResponse struct {
	TokenID       string      `json:"id"`
	Infringements interface{} `json:"infringements,omitempty"`
}

// Protector registers a token with the protection service.
type Protector interface {
	RegisterToken(ctx context.Context, reg *TokenRegistration) (*TokenResponse, error)
}

// Client talks to the Yakoa token API over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Yakoa API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Protector = (*Client)(nil)

// RegisterToken registers a token. A 409 from the service maps to ErrConflict
// so the caller can distinguish duplicate-id rejections from real failures.
func (c *Client) RegisterToken(ctx context.Context, reg *TokenRegistration) (*TokenResponse, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token registration failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, fmt.Errorf("token %s: %w", reg.TokenID, ErrConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yakoa returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tokenResp, nil
}
