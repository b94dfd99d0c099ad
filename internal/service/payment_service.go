package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/payment"
)

const (
	msgInvalidPrice  = "Invalid price amount."
	msgPaymentFailed = "Failed to create payment intent."
)

// PaymentService creates payment intents for application fees.
type PaymentService struct {
	provider payment.Provider
	currency string
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewPaymentService creates an instance of PaymentService.
func NewPaymentService(provider payment.Provider, currency string, metrics *MetricsService, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{provider: provider, currency: currency, metrics: metrics, logger: logger}
}

// CreateIntent registers an intent for price, given in the smallest
// currency unit, and returns its client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	price := float64(req.Price)
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 1 || price >= math.MaxInt64 {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgInvalidPrice)
	}
	amount := int64(math.Round(price))

	intent, err := s.provider.CreateIntent(ctx, payment.IntentInput{Amount: amount, Currency: s.currency})
	s.metrics.RecordPaymentIntent(s.provider.Name(), err == nil)
	if err != nil {
		s.logger.Error("payment intent failed",
			zap.String("provider", s.provider.Name()),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, msgPaymentFailed)
	}

	return &models.PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
		Provider:     s.provider.Name(),
	}, nil
}
