package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripe(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStripeProvider(StripeConfig{
		SecretKey: "sk_test_123",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:         1,
			Timeout:             time.Minute,
			ConsecutiveFailures: 2,
		},
	}, nil)
}

func TestStripeCreateIntent(t *testing.T) {
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, paymentIntentsPath, r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2500", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "card", r.PostForm.Get("payment_method_types[]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_x","amount":2500,"currency":"usd","status":"requires_payment_method"}`))
	})

	intent, err := p.CreateIntent(context.Background(), IntentInput{Amount: 2500, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_x", intent.ClientSecret)
	assert.Equal(t, int64(2500), intent.Amount)
}

func TestStripeClientErrorDoesNotTrip(t *testing.T) {
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Amount must be at least $0.50 usd"}}`))
	})

	for i := 0; i < 3; i++ {
		_, err := p.CreateIntent(context.Background(), IntentInput{Amount: 1, Currency: "usd"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "Amount must be")
	}
	assert.Equal(t, gobreaker.StateClosed, p.State())
}

func TestStripeServerErrorsOpenBreaker(t *testing.T) {
	var calls int32
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := p.CreateIntent(context.Background(), IntentInput{Amount: 100, Currency: "usd"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	_, err := p.CreateIntent(context.Background(), IntentInput{Amount: 100, Currency: "usd"})
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach the processor")
}

func TestStripeRejectsNonPositiveAmount(t *testing.T) {
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("processor must not be called")
	})
	_, err := p.CreateIntent(context.Background(), IntentInput{Amount: 0, Currency: "usd"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	intent, err := p.CreateIntent(context.Background(), IntentInput{Amount: 50, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
	assert.Contains(t, intent.ClientSecret, intent.ID+"_secret_")
	assert.Equal(t, int64(50), intent.Amount)
}
