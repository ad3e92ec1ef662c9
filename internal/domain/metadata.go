// Package domain defines the core domain models for the registration service.
package domain

// Creator is a single contributor to an IP asset.
type Creator struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	ContributionPercent int    `json:"contributionPercent"`
}

// IPMetadata is the Story Protocol IPA metadata document. Hash fields are
// content hashes of their corresponding URL fields.
type IPMetadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"createdAt"`
	Creators    []Creator `json:"creators"`
	Image       string    `json:"image"`
	ImageHash   string    `json:"imageHash"`
	MediaURL    string    `json:"mediaUrl"`
	MediaHash   string    `json:"mediaHash"`
	MediaType   string    `json:"mediaType"`
}

// NFTAttribute is a key/value trait on the NFT metadata document.
type NFTAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NFTMetadata is the ERC-721 style metadata document minted alongside the IP asset.
type NFTMetadata struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	AnimationURL string         `json:"animation_url"`
	Attributes   []NFTAttribute `json:"attributes"`
}

// IPMetadataInput is the raw step 1 payload before validation.
type IPMetadataInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"createdAt"`
	Creators    []Creator `json:"creators"`
	Image       string    `json:"image"`
	MediaURL    string    `json:"mediaUrl"`
	MediaType   string    `json:"mediaType"`
}

// NFTMetadataInput is the raw step 2 payload before validation.
type NFTMetadataInput struct {
	Name         string         `json:"nftName"`
	Description  string         `json:"nftDescription"`
	Image        string         `json:"nftImage"`
	AnimationURL string         `json:"animationUrl"`
	Attributes   []NFTAttribute `json:"attributes"`
}
