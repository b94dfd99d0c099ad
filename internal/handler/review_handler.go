package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type reviewService interface {
	Create(ctx context.Context, caller models.Identity, req models.CreateReviewRequest) (*models.Review, error)
	ListByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Latest(ctx context.Context) ([]models.Review, error)
	ListMine(ctx context.Context, email string) ([]models.Review, error)
	Update(ctx context.Context, caller models.Identity, id string, req models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
}

// ReviewHandler serves scholarship reviews.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(svc reviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// Create godoc
// @Summary Post review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateReviewRequest true "Review"
// @Success 201 {object} response.Envelope
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"insertedId": review.ID, "review": review}, nil)
}

// ListByScholarship godoc
// @Summary Reviews of a scholarship
// @Tags Reviews
// @Produce json
// @Param scholarshipId path string true "Scholarship ID"
// @Success 200 {object} response.Envelope
// @Router /reviews/{scholarshipId} [get]
func (h *ReviewHandler) ListByScholarship(c *gin.Context) {
	items, err := h.service.ListByScholarship(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Envelope
// @Router /reviews/single/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Latest godoc
// @Summary Latest reviews
// @Tags Reviews
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /latest-reviews [get]
func (h *ReviewHandler) Latest(c *gin.Context) {
	items, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListMine godoc
// @Summary Own reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param email query string true "Caller email"
// @Success 200 {object} response.Envelope
// @Router /dashboard/my-reviews [get]
func (h *ReviewHandler) ListMine(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.ListMine(c.Request.Context(), identity.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Edit own review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param payload body models.UpdateReviewRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reviews/{id} [patch]
func (h *ReviewHandler) Update(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	var req models.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.service.Update(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Delete godoc
// @Summary Delete review
// @Tags Reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Review deleted successfully.", nil)
}
