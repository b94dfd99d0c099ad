package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type tokenIssuer interface {
	Issue(req models.TokenRequest) (*models.TokenResponse, error)
}

// AuthHandler issues identity tokens.
type AuthHandler struct {
	tokens tokenIssuer
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Issue godoc
// @Summary Issue token
// @Description Sign a short lived token for an identity asserted by the identity provider
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Identity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /jwt [post]
func (h *AuthHandler) Issue(c *gin.Context) {
	var req models.TokenRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.tokens.Issue(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token, nil)
}
