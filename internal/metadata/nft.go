package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rijista/registrar/internal/domain"
)

// nftFieldLabels maps payload fields to the names shown in error messages.
var nftFieldLabels = map[string]string{
	"name":          "NFT Name",
	"description":   "NFT Description",
	"image":         "NFT Image URL",
	"animation_url": "Animation URL",
	"attributes":    "NFT Attributes",
}

// ValidateNFT checks a raw NFT metadata payload and returns the normalized
// document. Attribute problems are reported with their 1-based positions.
func ValidateNFT(input domain.NFTMetadataInput) (*domain.NFTMetadata, error) {
	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Description == "" {
		missing = append(missing, "description")
	}
	if input.Image == "" {
		missing = append(missing, "image")
	}
	if input.AnimationURL == "" {
		missing = append(missing, "animation_url")
	}
	if len(input.Attributes) == 0 {
		missing = append(missing, "attributes")
	}

	var problems []string
	if len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, field := range missing {
			labels[i] = nftFieldLabels[field]
		}
		problems = append(problems, "Please fill in all required fields: "+strings.Join(labels, ", "))
	}

	if input.Image != "" && !strings.HasPrefix(input.Image, "http") {
		problems = append(problems, "Please provide a valid HTTP(S) URL for the NFT image")
	}
	if input.AnimationURL != "" && !strings.HasPrefix(input.AnimationURL, "http") {
		problems = append(problems, "Please provide a valid HTTP(S) URL for the animation")
	}

	var badPositions []string
	for i, attr := range input.Attributes {
		if attr.Key == "" || attr.Value == "" {
			badPositions = append(badPositions, strconv.Itoa(i+1))
		}
	}
	if len(badPositions) > 0 {
		problems = append(problems, fmt.Sprintf(
			"Please provide both a key and value for attribute(s) at position(s): %s",
			strings.Join(badPositions, ", ")))
	}

	if len(problems) > 0 {
		return nil, &domain.ValidationError{Fields: missing, Message: strings.Join(problems, "; ")}
	}

	return &domain.NFTMetadata{
		Name:         input.Name,
		Description:  input.Description,
		Image:        input.Image,
		AnimationURL: input.AnimationURL,
		Attributes:   input.Attributes,
	}, nil
}
