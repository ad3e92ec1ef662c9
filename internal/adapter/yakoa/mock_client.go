package yakoa

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockProtector is a Protector for tests. ConflictFirst makes the first N
// calls fail with ErrConflict; Err overrides every call with a fixed error.
type MockProtector struct {
	ConflictFirst int32
	Err           error

	calls int32
}

// NewMockProtector creates a mock protection client.
func NewMockProtector() *MockProtector {
	return &MockProtector{}
}

var _ Protector = (*MockProtector)(nil)

// RegisterToken returns a mock response echoing the submitted token id.
func (m *MockProtector) RegisterToken(ctx context.Context, reg *TokenRegistration) (*TokenResponse, error) {
	call := atomic.AddInt32(&m.calls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	if call <= m.ConflictFirst {
		return nil, fmt.Errorf("token %s: %w", reg.TokenID, ErrConflict)
	}
	return &TokenResponse{TokenID: reg.TokenID}, nil
}

// Calls reports how many times RegisterToken was invoked.
func (m *MockProtector) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}
