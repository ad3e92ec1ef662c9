package domain

import "time"

// RegistrationStep identifies one of the four sequential registration steps.
type RegistrationStep int

const (
	StepIPMetadata  RegistrationStep = 1
	StepNFTMetadata RegistrationStep = 2
	StepUpload      RegistrationStep = 3
	StepOnChain     RegistrationStep = 4
)

// UploadResult holds the IPFS content identifiers and content hashes for both
// metadata documents. Produced once per session, immutable thereafter.
type UploadResult struct {
	IPIpfsHash  string `json:"ipIpfsHash"`
	IPHash      string `json:"ipHash"`
	NFTIpfsHash string `json:"nftIpfsHash"`
	NFTHash     string `json:"nftHash"`
}

// Session tracks one in-progress registration. Steps only add data; no step
// overwrites what an earlier step wrote.
type Session struct {
	RegistrationID string        `json:"registration_id"`
	IPMetadata     *IPMetadata   `json:"ip_metadata,omitempty"`
	NFTMetadata    *NFTMetadata  `json:"nft_metadata,omitempty"`
	UploadResult   *UploadResult `json:"upload_result,omitempty"`
	Protected      bool          `json:"protected,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// RegistrationResult is the terminal artifact of a successful session. License
// terms identifiers are kept as strings because they can exceed the safe
// integer range of JSON consumers.
type RegistrationResult struct {
	TxHash          string   `json:"txHash"`
	IPAssetID       string   `json:"ipId"`
	LicenseTermsIDs []string `json:"licenseTermsIds"`
	ExplorerURL     string   `json:"explorerUrl"`
}

// ProtectionResult is the outcome of the Yakoa protection flow.
type ProtectionResult struct {
	TokenID       string                 `json:"yakoaTokenId"`
	ProtectedAt   string                 `json:"protectedAt"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Infringements interface{}            `json:"infringements,omitempty"`
	Attempts      int                    `json:"attempts"`
	IsFallback    bool                   `json:"isFallback"`
}
