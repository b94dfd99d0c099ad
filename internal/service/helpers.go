package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
)

// parseID validates a UUID path parameter.
func parseID(raw, message string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", appErrors.Validation(err, message)
	}
	return id.String(), nil
}

// canonicalRef renders raw in canonical lowercase UUID form when it parses
// as one, and returns the trimmed text unchanged otherwise.
func canonicalRef(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if id, err := uuid.Parse(trimmed); err == nil {
		return id.String()
	}
	return trimmed
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newPagination(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
