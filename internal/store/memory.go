package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rijista/registrar/internal/domain"
)

// MemoryStore keeps sessions in a process-local map. A single mutex guards the
// map and serializes Update callbacks, which is enough at the request rates a
// single instance sees.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

var _ SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.RegistrationID]; exists {
		return fmt.Errorf("session %s already exists", session.RegistrationID)
	}
	cp := *session
	s.sessions[session.RegistrationID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, registrationID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[registrationID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *MemoryStore) Update(ctx context.Context, registrationID string, fn func(*domain.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[registrationID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	// Mutate a copy so a failing fn leaves the stored session untouched.
	cp := *session
	if err := fn(&cp); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now()
	s.sessions[registrationID] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, registrationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, registrationID)
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			swept++
		}
	}
	return swept, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
