package paystack

import (
	"context"
	"sync"

	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
)

// MockClient is a mock implementation of service.ChargeDispatcher for testing.
type MockClient struct {
	// DispatchFn can be set by tests to control behavior.
	DispatchFn func(ctx context.Context, req model.ChargeRequest) (service.ChargeOutcome, error)

	// Call tracking
	DispatchCalls []model.ChargeRequest
	mu            sync.Mutex
}

// NewMockClient creates a mock that accepts every charge.
func NewMockClient() *MockClient {
	return &MockClient{
		DispatchCalls: []model.ChargeRequest{},
	}
}

// Dispatch implements service.ChargeDispatcher.
func (m *MockClient) Dispatch(ctx context.Context, req model.ChargeRequest) (service.ChargeOutcome, error) {
	m.mu.Lock()
	m.DispatchCalls = append(m.DispatchCalls, req)
	fn := m.DispatchFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	// Default behavior: the gateway accepts and awaits the handset prompt.
	return service.ChargeOutcome{
		Reference:     req.Reference,
		GatewayStatus: "pay_offline",
		Message:       "Charge attempted",
		Accepted:      true,
	}, nil
}

// Calls returns a copy of the recorded charges.
func (m *MockClient) Calls() []model.ChargeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ChargeRequest(nil), m.DispatchCalls...)
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DispatchCalls = []model.ChargeRequest{}
}

// Ensure MockClient implements the dispatcher interface.
var _ service.ChargeDispatcher = (*MockClient)(nil)
