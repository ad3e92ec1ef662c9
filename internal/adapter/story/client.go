// Package story wraps the chain gateway that mints an NFT and registers it as
// an IP asset in a single transaction.
package story

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

// ErrMissingResponseData signals a confirmed transaction whose response lacked
// required fields. The adapter never returns a partially-filled result.
var ErrMissingResponseData = errors.New("Missing required response data")

// LicenseTermsOptions parameterizes the commercial-remix license terms minted
// with the asset. Zero values fall back to the platform defaults configured on
// the registrar.
type LicenseTermsOptions struct {
	DefaultMintingFee  int  `json:"defaultMintingFee"`
	CommercialRevShare int  `json:"commercialRevShare"`
	WaitForTransaction bool `json:"waitForTransaction"`
}

// MintRequest is the mint-and-register call sent to the gateway.
type MintRequest struct {
	SpgNftContract  string              `json:"spgNftContract"`
	LicenseTerms    LicenseTermsOptions `json:"licenseTerms"`
	IPMetadataURI   string              `json:"ipMetadataURI"`
	IPMetadataHash  string              `json:"ipMetadataHash"`
	NFTMetadataURI  string              `json:"nftMetadataURI"`
	NFTMetadataHash string              `json:"nftMetadataHash"`
}

// MintResponse is the gateway's reply. License terms ids arrive as arbitrary
// precision numbers and are kept as json.Number until stringified.
type MintResponse struct {
	TxHash          string        `json:"txHash"`
	IPAssetID       string        `json:"ipId"`
	LicenseTermsIDs []json.Number `json:"licenseTermsIds"`
}

// Registrar issues the combined mint + IP registration transaction.
type Registrar interface {
	MintAndRegister(ctx context.Context, req *MintRequest) (*MintResponse, error)
}

// Client talks to the Story chain gateway over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a chain gateway client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Registrar = (*Client)(nil)

// MintAndRegister submits the transaction and blocks until the gateway reports
// it confirmed (when WaitForTransaction is set). A response missing any
// required field is rejected with ErrMissingResponseData.
func (c *Client) MintAndRegister(ctx context.Context, mintReq *MintRequest) (*MintResponse, error) {
	body, err := json.Marshal(mintReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/ip-assets/mint-and-register", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mint request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chain gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var mintResp MintResponse
	if err := dec.Decode(&mintResp); err != nil {
		return nil, fmt.Errorf("failed to decode mint response: %w", err)
	}

	if mintResp.TxHash == "" || mintResp.IPAssetID == "" || len(mintResp.LicenseTermsIDs) == 0 {
		return nil, ErrMissingResponseData
	}

	return &mintResp, nil
}
