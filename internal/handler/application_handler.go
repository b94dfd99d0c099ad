package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type applicationService interface {
	Create(ctx context.Context, req models.CreateApplicationRequest) (*models.CreateApplicationResult, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateApplicationStatusRequest, meta models.RequestMeta) (*models.Application, error)
	ListMine(ctx context.Context, email string) ([]models.ApplicationView, error)
	ListPending(ctx context.Context) ([]models.ApplicationView, error)
	Delete(ctx context.Context, id string, meta models.RequestMeta) error
}

// ApplicationHandler serves the application workflow.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(svc applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Create godoc
// @Summary Submit application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body models.CreateApplicationRequest true "Application"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req models.CreateApplicationRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// ListMine godoc
// @Summary Own applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param email query string true "Caller email"
// @Success 200 {object} response.Envelope
// @Router /dashboard/my-applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
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

// ListPending godoc
// @Summary Moderation queue
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applications/pending [get]
func (h *ApplicationHandler) ListPending(c *gin.Context) {
	items, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// UpdateStatus godoc
// @Summary Moderate application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body models.UpdateApplicationStatusRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications/status/{id} [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Delete godoc
// @Summary Delete application
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Application deleted successfully.", nil)
}
