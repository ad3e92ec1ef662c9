package ipfs

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockPinner is a Pinner for tests. It returns synthetic CIDs and can be made
// to fail a fixed number of times.
type MockPinner struct {
	FailFirst int32 // number of calls that should fail before succeeding

	calls int32
}

// NewMockPinner creates a mock pinner.
func NewMockPinner() *MockPinner {
	return &MockPinner{}
}

var _ Pinner = (*MockPinner)(nil)

// PinJSON returns a deterministic mock CID.
func (m *MockPinner) PinJSON(ctx context.Context, doc interface{}) (string, error) {
	call := atomic.AddInt32(&m.calls, 1)
	if call <= m.FailFirst {
		return "", fmt.Errorf("mock pin failure %d", call)
	}
	return fmt.Sprintf("Qm-mock-%d", call), nil
}

// Calls reports how many times PinJSON was invoked.
func (m *MockPinner) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}
