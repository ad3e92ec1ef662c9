// Package metadata validates and builds the IP and NFT metadata documents.
package metadata

import (
	"fmt"
	"strings"

	"github.com/rijista/registrar/internal/contenthash"
	"github.com/rijista/registrar/internal/domain"
)

// addressPrefix is the EVM address prefix required on every creator address.
const addressPrefix = "0x"

// ValidateIP checks a raw IP metadata payload and returns the normalized
// document, with image and media content hashes computed from their URLs.
// Every missing or malformed field is reported in a single pass.
func ValidateIP(input domain.IPMetadataInput) (*domain.IPMetadata, error) {
	var missing []string
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Description == "" {
		missing = append(missing, "description")
	}
	if input.CreatedAt == "" {
		missing = append(missing, "createdAt")
	}
	if len(input.Creators) == 0 {
		missing = append(missing, "creators")
	}
	if input.Image == "" {
		missing = append(missing, "image")
	}
	if input.MediaURL == "" {
		missing = append(missing, "mediaUrl")
	}
	if input.MediaType == "" {
		missing = append(missing, "mediaType")
	}

	var invalid []string
	for _, creator := range input.Creators {
		if !strings.HasPrefix(creator.Address, addressPrefix) {
			invalid = append(invalid, fmt.Sprintf("creator %q has an invalid address", creator.Name))
		}
	}

	if len(missing) > 0 || len(invalid) > 0 {
		ve := &domain.ValidationError{Fields: missing}
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "Missing required fields: "+strings.Join(missing, ", "))
		}
		parts = append(parts, invalid...)
		ve.Message = strings.Join(parts, "; ")
		return nil, ve
	}

	return &domain.IPMetadata{
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   input.CreatedAt,
		Creators:    input.Creators,
		Image:       input.Image,
		ImageHash:   contenthash.Hash(input.Image),
		MediaURL:    input.MediaURL,
		MediaHash:   contenthash.Hash(input.MediaURL),
		MediaType:   input.MediaType,
	}, nil
}
