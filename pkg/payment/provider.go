// Package payment integrates the external payment processor used to collect
// scholarship application fees.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// IntentInput holds the parameters for a payment intent.
type IntentInput struct {
	// Amount in the smallest currency unit.
	Amount   int64
	Currency string
}

// Intent is the processor's view of a created payment intent.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Provider creates payment intents with an external processor.
type Provider interface {
	// Name returns the provider name (e.g. "mock", "stripe").
	Name() string

	// CreateIntent registers a new intent and returns its client secret.
	CreateIntent(ctx context.Context, input IntentInput) (*Intent, error)
}

// ErrInvalidAmount is returned for non-positive amounts before any remote call.
var ErrInvalidAmount = errors.New("payment: amount must be positive")

// APIError is an error response returned by the processor.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment provider returned %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the failure is on the processor side.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}
