package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rijista/registrar/internal/domain"
)

func newSession(id string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		RegistrationID: id,
		IPMetadata:     &domain.IPMetadata{Title: "t", Description: "d"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestMemoryStoreCreateGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("REG-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, newSession("REG-1")); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}

	got, err := s.Get(ctx, "REG-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IPMetadata == nil || got.IPMetadata.Title != "t" {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, err := s.Get(ctx, "REG-2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdateFailureLeavesSessionUntouched(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("REG-1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(ctx, "REG-1", func(session *domain.Session) error {
		session.NFTMetadata = &domain.NFTMetadata{Name: "n"}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := s.Get(ctx, "REG-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.NFTMetadata != nil {
		t.Fatalf("failed update mutated stored session: %+v", got)
	}
}

func TestMemoryStoreUpdateSerializes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	session := newSession("REG-1")
	session.NFTMetadata = &domain.NFTMetadata{Name: "n"}
	if err := s.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Concurrent first-write-wins updates must not clobber each other.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "REG-1", func(session *domain.Session) error {
				if session.UploadResult == nil {
					session.UploadResult = &domain.UploadResult{IPIpfsHash: "Qm", IPHash: "0x1"}
				}
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "REG-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UploadResult == nil || got.UploadResult.IPIpfsHash != "Qm" {
		t.Fatalf("unexpected upload result: %+v", got.UploadResult)
	}
	if got.NFTMetadata == nil {
		t.Fatalf("concurrent updates dropped earlier step data")
	}
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := newSession("REG-old")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	if err := s.Create(ctx, old); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, newSession("REG-new")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	swept, err := s.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept, got %d", swept)
	}
	if _, err := s.Get(ctx, "REG-old"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session still present")
	}
	if _, err := s.Get(ctx, "REG-new"); err != nil {
		t.Fatalf("fresh session swept: %v", err)
	}
}
