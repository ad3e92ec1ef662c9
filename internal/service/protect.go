package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rijista/registrar/internal/adapter/yakoa"
	"github.com/rijista/registrar/internal/domain"
	"github.com/rijista/registrar/pkg/retry"
)

const protectMaxAttempts = 5

// ProtectRequest carries the identifiers and media for one protection call.
type ProtectRequest struct {
	RegistrationID string
	TokenID        string
	CreatorID      string
	TxHash         string
	Metadata       map[string]interface{}
	Media          []yakoa.Media
}

// Protect registers the asset with the anti-infringement service. Conflict
// rejections are retried up to protectMaxAttempts times with fresh random
// identifiers and exponential backoff; once the budget is spent the result is
// downgraded to a fallback success instead of failing a registration whose
// authoritative on-chain part already succeeded. Any non-conflict error aborts
// immediately.
func (s *Service) Protect(ctx context.Context, req ProtectRequest) (*domain.ProtectionResult, error) {
	tokenID := req.TokenID
	creatorID := req.CreatorID
	txHash := req.TxHash

	attempts := 0
	var resp *yakoa.TokenResponse

	backoff := s.config.YakoaBackoff
	cfg := retry.Config{
		MaxAttempts:  protectMaxAttempts,
		InitialDelay: backoff,
		MaxDelay:     5 * backoff,
		Multiplier:   2.0,
		RetryIf: func(err error) bool {
			return errors.Is(err, yakoa.ErrConflict)
		},
		OnRetry: func(attempt int, err error) {
			tokenID = randomHex()
			creatorID = randomHex()
			txHash = randomHex()
			log.Printf("WARN: protection attempt %d conflicted, regenerating identifiers: %v", attempt, err)
		},
	}

	err := retry.Do(ctx, cfg, func(attempt int) error {
		attempts = attempt
		r, err := s.protector.RegisterToken(ctx, &yakoa.TokenRegistration{
			TokenID:   tokenID,
			CreatorID: creatorID,
			TxHash:    txHash,
			Metadata:  req.Metadata,
			Media:     req.Media,
		})
		if err != nil {
			return err
		}
		resp = r
		return nil
	})

	protectedAt := time.Now().UTC().Format(time.RFC3339)

	if err != nil {
		if errors.Is(err, retry.ErrAttemptsExhausted) && errors.Is(err, yakoa.ErrConflict) {
			log.Printf("WARN: protection conflicts exhausted after %d attempts, returning fallback for %s",
				attempts, req.RegistrationID)
			return &domain.ProtectionResult{
				TokenID:     tokenID,
				ProtectedAt: protectedAt,
				Metadata:    req.Metadata,
				Attempts:    attempts,
				IsFallback:  true,
			}, nil
		}
		return nil, err
	}

	s.markProtected(ctx, req.RegistrationID)

	return &domain.ProtectionResult{
		TokenID:       resp.TokenID,
		ProtectedAt:   protectedAt,
		Metadata:      req.Metadata,
		Infringements: resp.Infringements,
		Attempts:      attempts,
		IsFallback:    false,
	}, nil
}

// markProtected records the protection status on the session if it still
// exists. Protection usually runs after step 4 deleted the session, so a
// missing session is not an error.
func (s *Service) markProtected(ctx context.Context, registrationID string) {
	if registrationID == "" {
		return
	}
	err := s.store.Update(ctx, registrationID, func(session *domain.Session) error {
		session.Protected = true
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("WARN: failed to mark session %s protected: %v", registrationID, err)
	}
}

// randomHex mints a fresh 0x-prefixed 32-character hex identifier.
func randomHex() string {
	return "0x" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
