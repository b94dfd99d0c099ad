package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const paymentIntentsPath = "/v1/payment_intents"

// BreakerConfig tunes the circuit breaker guarding the processor.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns the breaker settings used in production.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// StripeConfig configures the Stripe provider.
type StripeConfig struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
	Breaker   BreakerConfig
}

// StripeProvider creates payment intents through the Stripe REST API. Calls
// are never retried; an open breaker fails fast with ErrCircuitOpen.
type StripeProvider struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker[*Intent]
	logger  *zap.Logger
}

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewStripeProvider builds a Stripe provider guarded by a circuit breaker.
func NewStripeProvider(cfg StripeConfig, logger *zap.Logger) *StripeProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.SecretKey).
		SetRetryCount(0)

	settings := gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &StripeProvider{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*Intent](settings),
		logger:  logger,
	}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// State exposes the breaker state.
func (p *StripeProvider) State() gobreaker.State {
	return p.breaker.State()
}

// CreateIntent posts a card payment intent to Stripe.
func (p *StripeProvider) CreateIntent(ctx context.Context, input IntentInput) (*Intent, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return p.breaker.Execute(func() (*Intent, error) {
		var (
			intent  Intent
			errBody stripeErrorBody
		)
		resp, err := p.client.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"amount":                 strconv.FormatInt(input.Amount, 10),
				"currency":               input.Currency,
				"payment_method_types[]": "card",
			}).
			SetResult(&intent).
			SetError(&errBody).
			Post(paymentIntentsPath)
		if err != nil {
			return nil, fmt.Errorf("create payment intent: %w", err)
		}
		if resp.IsError() {
			return nil, &APIError{
				StatusCode: resp.StatusCode(),
				Type:       errBody.Error.Type,
				Message:    errBody.Error.Message,
			}
		}
		if intent.ClientSecret == "" {
			return nil, fmt.Errorf("create payment intent: empty client secret")
		}
		return &intent, nil
	})
}
