package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(http.StatusBadRequest, "TEST_CODE", "test message")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "TEST_CODE", err.ErrorCode)
	assert.Equal(t, "test message", err.Message)
	assert.Nil(t, err.Details)
	assert.Equal(t, "test message", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusInternalServerError, "CODE", "msg", "details here")

	assert.Equal(t, "details here", err.Details)
}

func TestUnknownSourceError(t *testing.T) {
	err := UnknownSourceError("yfinance")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "UNKNOWN_SOURCE", err.ErrorCode)
	assert.Contains(t, err.Message, "yfinance")
	assert.Equal(t, "yfinance", err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("source", "source is required")

	require.IsType(t, ValidationError{}, err.Details)
	ve := err.Details.(ValidationError)
	assert.Equal(t, "source", ve.Field)
	assert.Equal(t, "source is required", ve.Message)
}

func TestAPIErrorRender(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "missing")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	require.NoError(t, err.Render(w, r))
}

func TestNewErrorResponse(t *testing.T) {
	apiErr := ErrInvalidRequest
	resp := NewErrorResponse(apiErr)

	assert.False(t, resp.Success)
	assert.Equal(t, apiErr, resp.Error)
}
