package ipfs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rijista/registrar/internal/contenthash"
	"github.com/rijista/registrar/internal/domain"
)

// UploadOptions controls the metadata upload.
type UploadOptions struct {
	// ValidateBeforeUpload re-checks required-field presence and fails fast
	// without touching the network.
	ValidateBeforeUpload bool
}

// Uploader pins both metadata documents and returns their CIDs and hashes.
type Uploader struct {
	pinner Pinner
}

// NewUploader creates an Uploader on top of a Pinner.
func NewUploader(pinner Pinner) *Uploader {
	return &Uploader{pinner: pinner}
}

// Upload serializes each document deterministically, hashes it, and pins it.
// Either upload failing surfaces as a single wrapped error; no partial result
// is returned, so the caller retries both or neither.
func (u *Uploader) Upload(ctx context.Context, ipMetadata *domain.IPMetadata, nftMetadata *domain.NFTMetadata, opts UploadOptions) (*domain.UploadResult, error) {
	if opts.ValidateBeforeUpload {
		if ipMetadata == nil || ipMetadata.Title == "" || ipMetadata.Description == "" || len(ipMetadata.Creators) == 0 {
			return nil, &domain.ValidationError{Message: "Invalid IP metadata: missing required fields"}
		}
		if nftMetadata == nil || nftMetadata.Name == "" || nftMetadata.Description == "" || len(nftMetadata.Attributes) == 0 {
			return nil, &domain.ValidationError{Message: "Invalid NFT metadata: missing required fields"}
		}
	}

	ipDoc, err := json.Marshal(ipMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize IP metadata: %w", err)
	}
	nftDoc, err := json.Marshal(nftMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize NFT metadata: %w", err)
	}

	ipCid, err := u.pinner.PinJSON(ctx, ipMetadata)
	if err != nil {
		return nil, fmt.Errorf("Failed to upload metadata to IPFS: %w", err)
	}
	nftCid, err := u.pinner.PinJSON(ctx, nftMetadata)
	if err != nil {
		return nil, fmt.Errorf("Failed to upload metadata to IPFS: %w", err)
	}

	return &domain.UploadResult{
		IPIpfsHash:  ipCid,
		IPHash:      contenthash.HashBytes(ipDoc),
		NFTIpfsHash: nftCid,
		NFTHash:     contenthash.HashBytes(nftDoc),
	}, nil
}
