package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/rijista/registrar/internal/adapter/ipfs"
	"github.com/rijista/registrar/internal/adapter/story"
	"github.com/rijista/registrar/internal/domain"
	"github.com/rijista/registrar/internal/metadata"
)

// Precondition messages match what clients of the original API already expect.
const (
	msgNeedStep1    = "IP metadata not found. Please complete step 1 first."
	msgNeedMetadata = "Missing metadata. Please complete all previous steps."
	msgNeedUpload   = "Missing data. Please complete all previous steps."
)

// StepIPMetadata runs step 1: validate and store the IP metadata document and
// mint the session id. No session is created when validation fails.
func (s *Service) StepIPMetadata(ctx context.Context, input domain.IPMetadataInput) (string, error) {
	ipMeta, err := metadata.ValidateIP(input)
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &domain.Session{
		IPMetadata: ipMeta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Millisecond ids can collide under load; bump until the insert lands.
	for offset := int64(0); ; offset++ {
		session.RegistrationID = "REG-" + strconv.FormatInt(now.UnixMilli()+offset, 10)
		if err := s.store.Create(ctx, session); err == nil {
			break
		} else if offset >= 100 {
			return "", fmt.Errorf("failed to create session: %w", err)
		}
	}

	log.Printf("INFO: registration %s: step 1 complete (%q)", session.RegistrationID, ipMeta.Title)
	return session.RegistrationID, nil
}

// StepNFTMetadata runs step 2: validate and store the NFT metadata document
// alongside the IP metadata from step 1.
func (s *Service) StepNFTMetadata(ctx context.Context, registrationID string, input domain.NFTMetadataInput) error {
	err := s.store.Update(ctx, registrationID, func(session *domain.Session) error {
		if session.IPMetadata == nil {
			return &domain.PreconditionError{Step: domain.StepIPMetadata, Message: msgNeedStep1}
		}
		nftMeta, err := metadata.ValidateNFT(input)
		if err != nil {
			return err
		}
		session.NFTMetadata = nftMeta
		return nil
	})
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.PreconditionError{Step: domain.StepIPMetadata, Message: msgNeedStep1}
	}
	if err != nil {
		return err
	}

	log.Printf("INFO: registration %s: step 2 complete", registrationID)
	return nil
}

// StepUpload runs step 3: pin both metadata documents to IPFS and store the
// upload result. On upload failure the session keeps its prior state so the
// client can retry the step.
func (s *Service) StepUpload(ctx context.Context, registrationID string) error {
	session, err := s.store.Get(ctx, registrationID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.PreconditionError{Step: domain.StepNFTMetadata, Message: msgNeedMetadata}
	}
	if err != nil {
		return err
	}
	if session.IPMetadata == nil || session.NFTMetadata == nil {
		return &domain.PreconditionError{Step: domain.StepNFTMetadata, Message: msgNeedMetadata}
	}

	result, err := s.uploader.Upload(ctx, session.IPMetadata, session.NFTMetadata, ipfs.UploadOptions{
		ValidateBeforeUpload: true,
	})
	if err != nil {
		return err
	}

	// The upload ran outside the store's critical section; keep whichever
	// result a concurrent retry persisted first.
	err = s.store.Update(ctx, registrationID, func(session *domain.Session) error {
		if session.UploadResult == nil {
			session.UploadResult = result
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("INFO: registration %s: step 3 complete (ip=%s nft=%s)",
		registrationID, result.IPIpfsHash, result.NFTIpfsHash)
	return nil
}

// StepOnChain runs step 4: mint the NFT and register the IP asset, then delete
// the session. On failure the session keeps its state for a client retry.
//
// A retry after a transient gateway failure may re-issue the mint without
// checking whether the previous attempt landed on-chain; there is no
// idempotency key for the transaction.
func (s *Service) StepOnChain(ctx context.Context, registrationID string) (*domain.RegistrationResult, error) {
	session, err := s.store.Get(ctx, registrationID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, &domain.PreconditionError{Step: domain.StepUpload, Message: msgNeedUpload}
	}
	if err != nil {
		return nil, err
	}
	if session.IPMetadata == nil || session.NFTMetadata == nil || session.UploadResult == nil {
		return nil, &domain.PreconditionError{Step: domain.StepUpload, Message: msgNeedUpload}
	}

	opts := story.RegistrationOptions{
		DefaultMintingFee:  s.config.DefaultMintingFee,
		CommercialRevShare: s.config.CommercialRevShare,
		SpgNftContract:     s.config.SpgNftContract,
		WaitForTransaction: true,
		IPFSGateway:        s.config.IPFSGateway,
	}

	decision, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"minting_fee":          opts.DefaultMintingFee,
		"commercial_rev_share": opts.CommercialRevShare,
	})
	if err != nil {
		return nil, fmt.Errorf("license policy evaluation failed: %w", err)
	}
	if decision != "allow" {
		return nil, fmt.Errorf("license terms rejected by policy (fee=%d revShare=%d)",
			opts.DefaultMintingFee, opts.CommercialRevShare)
	}

	result, err := s.chain.Register(ctx, session.UploadResult, opts)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, registrationID); err != nil {
		log.Printf("WARN: failed to delete completed session %s: %v", registrationID, err)
	}

	log.Printf("INFO: registration %s: step 4 complete (ipa=%s tx=%s)",
		registrationID, result.IPAssetID, result.TxHash)
	return result, nil
}
