package story

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// MockRegistrar is a Registrar for tests.
type MockRegistrar struct {
	Err       error // returned by every call when set
	FailFirst int32 // number of calls that should fail before succeeding

	calls int32
}

// NewMockRegistrar creates a mock chain registrar.
func NewMockRegistrar() *MockRegistrar {
	return &MockRegistrar{}
}

var _ Registrar = (*MockRegistrar)(nil)

// MintAndRegister returns a deterministic mock response.
func (m *MockRegistrar) MintAndRegister(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	call := atomic.AddInt32(&m.calls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	if call <= m.FailFirst {
		return nil, fmt.Errorf("mock mint failure %d", call)
	}
	return &MintResponse{
		TxHash:          "0xmocktx",
		IPAssetID:       "0xmockipa",
		LicenseTermsIDs: []json.Number{"96"},
	}, nil
}

// Calls reports how many times MintAndRegister was invoked.
func (m *MockRegistrar) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}
