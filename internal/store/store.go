// Package store defines the session storage interface and implementations.
package store

import (
	"context"
	"time"

	"github.com/rijista/registrar/internal/domain"
)

// SessionStore persists in-flight registration sessions. Update must apply the
// mutation atomically per key so concurrent requests for one session serialize
// instead of racing.
type SessionStore interface {
	// Create inserts a fresh session. Fails if the id already exists.
	Create(ctx context.Context, session *domain.Session) error

	// Get returns the session or domain.ErrSessionNotFound.
	Get(ctx context.Context, registrationID string) (*domain.Session, error)

	// Update applies fn to the stored session under a per-key critical
	// section and persists the result. If fn returns an error, nothing is
	// written. Returns domain.ErrSessionNotFound for unknown ids.
	Update(ctx context.Context, registrationID string, fn func(*domain.Session) error) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, registrationID string) error

	// DeleteExpired removes sessions created before cutoff and reports how
	// many were swept.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)

	// Lifecycle
	Close() error
}
