package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_StatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		typ    ErrorType
		status int
	}{
		{NewValidationError("bad", nil), ErrorTypeValidation, http.StatusBadRequest},
		{NewNetworkError("down", nil), ErrorTypeNetwork, http.StatusBadGateway},
		{NewDecodeError("garbled", nil), ErrorTypeDecode, http.StatusUnsupportedMediaType},
		{NewProcessingError("failed", nil), ErrorTypeProcessing, http.StatusUnprocessableEntity},
		{NewTimeoutError("slow", nil), ErrorTypeTimeout, http.StatusGatewayTimeout},
		{NewNotFoundError("gone", nil), ErrorTypeNotFound, http.StatusNotFound},
		{NewInternalError("oops", nil), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, GetStatusCode(tt.err))
			assert.True(t, IsType(tt.err, tt.typ))
		})
	}
}

func TestAppError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("failed to fetch image", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "network: failed to fetch image (caused by: connection refused)", err.Error())

	wrapped := fmt.Errorf("batch item 3: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeNetwork))
	assert.Equal(t, http.StatusBadGateway, GetStatusCode(wrapped))
}

func TestAppError_PlainErrors(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(err))
}

func TestAppError_WithDetails(t *testing.T) {
	base := NewValidationError("bad source", nil)
	detailed := base.WithDetails("scheme ftp not allowed")

	assert.Empty(t, base.Details)
	assert.Equal(t, "scheme ftp not allowed", detailed.Details)
}
