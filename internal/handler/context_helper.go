package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/middleware"
	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

// identityFromContext returns the gate identity or renders 401.
func identityFromContext(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok || identity.Email == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return identity, true
}

func requestMeta(c *gin.Context) models.RequestMeta {
	meta := models.RequestMeta{IPAddress: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if identity, ok := middleware.IdentityFromContext(c); ok {
		meta.ActorEmail = identity.Email
	}
	return meta
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Validation(err, "Invalid request payload."))
		return false
	}
	return true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", c.DefaultQuery("limit", "20")))
	return page, size
}
