package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type scholarshipService interface {
	Search(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, *models.Pagination, error)
	ListPosted(ctx context.Context, email string, page, pageSize int) ([]models.Scholarship, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Scholarship, error)
	Create(ctx context.Context, caller models.Identity, req models.CreateScholarshipRequest) (*models.Scholarship, error)
	Update(ctx context.Context, id string, req models.UpdateScholarshipRequest) (*models.Scholarship, error)
	Delete(ctx context.Context, id string) error
}

// ScholarshipHandler serves the scholarship catalogue.
type ScholarshipHandler struct {
	service scholarshipService
}

// NewScholarshipHandler creates a new scholarship handler.
func NewScholarshipHandler(svc scholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{service: svc}
}

// Search godoc
// @Summary Search scholarships
// @Tags Scholarships
// @Produce json
// @Param search query string false "Name, university or degree"
// @Param category query string false "Scholarship category"
// @Param subject query string false "Subject category"
// @Param location query string false "University country"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /all-scholarships [get]
func (h *ScholarshipHandler) Search(c *gin.Context) {
	filter := models.ScholarshipFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Subject:  c.Query("subject"),
		Location: c.Query("location"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	items, pagination, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get scholarship
// @Tags Scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholarships/{id} [get]
func (h *ScholarshipHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Post scholarship
// @Tags Scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateScholarshipRequest true "Scholarship"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /add-scholarships [post]
func (h *ScholarshipHandler) Create(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	var req models.CreateScholarshipRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"insertedId": item.ID, "scholarship": item}, nil)
}

// ListPosted godoc
// @Summary Scholarships posted by caller
// @Tags Scholarships
// @Produce json
// @Security BearerAuth
// @Param email query string false "Poster email, defaults to caller"
// @Success 200 {object} response.Envelope
// @Router /add-scholarships [get]
func (h *ScholarshipHandler) ListPosted(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	email := c.DefaultQuery("email", identity.Email)
	page, size := pageParams(c)
	items, pagination, err := h.service.ListPosted(c.Request.Context(), email, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Update godoc
// @Summary Edit scholarship
// @Tags Scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Param payload body models.UpdateScholarshipRequest true "Descriptive fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholarships/{id} [patch]
func (h *ScholarshipHandler) Update(c *gin.Context) {
	var req models.UpdateScholarshipRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete scholarship
// @Tags Scholarships
// @Security BearerAuth
// @Param id path string true "Scholarship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholarships/{id} [delete]
func (h *ScholarshipHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Scholarship deleted successfully.", nil)
}
