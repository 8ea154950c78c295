package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_SurvivesWrapping(t *testing.T) {
	base := NewInsufficientStock("a-1", 6, 5)
	wrapped := fmt.Errorf("post movement: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
	assert.True(t, IsInsufficientStock(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))
}

func TestAppError_Details(t *testing.T) {
	err := NewValidation("quantity must be positive").
		WithDetail("field", "lines").
		WithDetail("lineNo", 2)

	assert.Equal(t, "lines", err.Details["field"])
	assert.Equal(t, 2, err.Details["lineNo"])
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabase(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestFactories_CarryCodes(t *testing.T) {
	assert.True(t, IsCode(NewEmptyMovement(), CodeEmptyMovement))
	assert.True(t, IsAlreadySeeded(NewAlreadySeeded("a", "w")))
	assert.True(t, IsCode(NewSeedDeletionForbidden("s"), CodeSeedDeletionForbidden))
	assert.True(t, IsNotFound(NewNotFound("article", "a-1")))
	assert.True(t, IsCode(NewIdempotencyConflict("k"), CodeIdempotencyConflict))
	assert.True(t, IsCode(NewIdempotencyMismatch("k"), CodeIdempotencyMismatch))
}
