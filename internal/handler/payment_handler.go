package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type paymentService interface {
	CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error)
}

// PaymentHandler creates payment intents for application fees.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// CreateIntent godoc
// @Summary Create payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.PaymentIntentRequest true "Price in the smallest currency unit"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	intent, err := h.service.CreateIntent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, intent, nil)
}
