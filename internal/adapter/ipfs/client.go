// Package ipfs pins metadata documents through a hosted pinning service.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Pinner uploads a JSON document and returns its content identifier.
type Pinner interface {
	PinJSON(ctx context.Context, doc interface{}) (string, error)
}

// Client is a Pinata-compatible pinning client.
type Client struct {
	baseURL    string
	jwt        string
	httpClient *http.Client
}

// NewClient creates a pinning client for the given service URL and JWT.
func NewClient(baseURL, jwt string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		jwt:     jwt,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Pinner = (*Client)(nil)

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int    `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PinJSON uploads doc to the pinning service and returns the CID.
func (c *Client) PinJSON(ctx context.Context, doc interface{}) (string, error) {
	payload := map[string]interface{}{
		"pinataContent": doc,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.jwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("pinning service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var pinResp pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinResp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if pinResp.IpfsHash == "" {
		return "", fmt.Errorf("pinning service returned no content identifier")
	}

	return pinResp.IpfsHash, nil
}
