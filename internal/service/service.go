// Package service implements the four-step registration state machine and the
// protection flow on top of the session store and the external-service adapters.
package service

import (
	"context"
	"log"
	"time"

	"github.com/rijista/registrar/internal/adapter/ipfs"
	"github.com/rijista/registrar/internal/adapter/story"
	"github.com/rijista/registrar/internal/adapter/yakoa"
	"github.com/rijista/registrar/internal/config"
	"github.com/rijista/registrar/internal/store"
	"github.com/rijista/registrar/policy"
)

type Service struct {
	store        store.SessionStore
	uploader     *ipfs.Uploader
	chain        *story.Service
	protector    yakoa.Protector
	policyEngine *policy.Engine
	config       *config.Config
}

func New(sessions store.SessionStore, uploader *ipfs.Uploader, chain *story.Service, protector yakoa.Protector, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        sessions,
		uploader:     uploader,
		chain:        chain,
		protector:    protector,
		policyEngine: policyEngine,
		config:       cfg,
	}
}

// RunSessionSweeper periodically deletes sessions older than the configured
// TTL. Abandoned registrations would otherwise accumulate until restart.
func (s *Service) RunSessionSweeper(ctx context.Context) {
	if s.config.SessionTTL <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.config.SessionTTL)
			swept, err := s.store.DeleteExpired(ctx, cutoff)
			if err != nil {
				log.Printf("WARN: session sweep failed: %v", err)
				continue
			}
			if swept > 0 {
				log.Printf("INFO: swept %d expired registration sessions", swept)
			}
		}
	}
}
