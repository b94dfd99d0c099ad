package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.EqualError(t, err, "internal server error: boom")
}

func TestFromErrorKeepsTyped(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", Clone(ErrForbidden, "nope"))
	err := FromError(wrapped)
	assert.Equal(t, ErrForbidden.Code, err.Code)
	assert.Equal(t, "nope", err.Message)
}

func TestIsMatchesByCode(t *testing.T) {
	clone := Clone(ErrTokenExpired, "expired at noon")
	assert.True(t, stdErrors.Is(clone, ErrTokenExpired))
	assert.False(t, stdErrors.Is(clone, ErrTokenInvalid))

	wrapped := Internal(stdErrors.New("db down"), "failed")
	assert.True(t, stdErrors.Is(wrapped, ErrInternal))
}

func TestConflictUsesBadRequest(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrConflict.Status)
}
