package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// MockProvider is a payment provider that always succeeds. It is used when no
// processor credentials are configured.
type MockProvider struct{}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// CreateIntent fabricates an intent shaped like the processor's.
func (p *MockProvider) CreateIntent(_ context.Context, input IntentInput) (*Intent, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	id := "mock_pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Amount:       input.Amount,
		Currency:     input.Currency,
		Status:       "requires_payment_method",
	}, nil
}
