package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/rijista/registrar/internal/domain"
)

// RegistrationOptions configures one mint-and-register call.
type RegistrationOptions struct {
	DefaultMintingFee  int
	CommercialRevShare int
	SpgNftContract     string
	WaitForTransaction bool
	IPFSGateway        string
}

// Service derives gateway URIs, issues the transaction through a Registrar,
// and shapes the on-chain identifiers into a RegistrationResult.
type Service struct {
	registrar   Registrar
	explorerURL string
}

// NewService creates a registration service over a Registrar. explorerURL is
// the network's protocol explorer base, e.g. https://aeneid.explorer.story.foundation.
func NewService(registrar Registrar, explorerURL string) *Service {
	return &Service{
		registrar:   registrar,
		explorerURL: strings.TrimSuffix(explorerURL, "/"),
	}
}

// Register mints the NFT and registers it as an IP asset under commercial
// remix terms built from opts. The session's upload result supplies the
// metadata URIs and hashes.
func (s *Service) Register(ctx context.Context, upload *domain.UploadResult, opts RegistrationOptions) (*domain.RegistrationResult, error) {
	gateway := opts.IPFSGateway
	if gateway == "" {
		gateway = "https://ipfs.io/ipfs/"
	}

	req := &MintRequest{
		SpgNftContract: opts.SpgNftContract,
		LicenseTerms: LicenseTermsOptions{
			DefaultMintingFee:  opts.DefaultMintingFee,
			CommercialRevShare: opts.CommercialRevShare,
			WaitForTransaction: opts.WaitForTransaction,
		},
		IPMetadataURI:   gateway + upload.IPIpfsHash,
		IPMetadataHash:  upload.IPHash,
		NFTMetadataURI:  gateway + upload.NFTIpfsHash,
		NFTMetadataHash: upload.NFTHash,
	}

	resp, err := s.registrar.MintAndRegister(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(resp.LicenseTermsIDs))
	for i, id := range resp.LicenseTermsIDs {
		ids[i] = id.String()
	}

	return &domain.RegistrationResult{
		TxHash:          resp.TxHash,
		IPAssetID:       resp.IPAssetID,
		LicenseTermsIDs: ids,
		ExplorerURL:     fmt.Sprintf("%s/ipa/%s", s.explorerURL, resp.IPAssetID),
	}, nil
}
