package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestErrorCarriesMessageVerbatim(t *testing.T) {
	err := NewRequestError(http.MethodPost, "/api/trades/", 400, "invalid", "Entry price must be positive")
	assert.Equal(t, "Entry price must be positive", ServerMessage(err))
	assert.True(t, IsClientError(err))
	assert.Contains(t, err.Error(), "POST /api/trades/")
	assert.Contains(t, err.Error(), "400")
}

func TestServerMessageThroughWrapping(t *testing.T) {
	inner := NewRequestError(http.MethodGet, "/api/stats/summary", 503, "", "Service warming up")
	wrapped := Wrapf(inner, "fetching summary")
	assert.Equal(t, "Service warming up", ServerMessage(wrapped))

	var re *RequestError
	require.True(t, As(wrapped, &re))
	assert.Equal(t, 503, re.Status)
	assert.False(t, IsClientError(wrapped))
}

func TestServerMessageFallsBackToErrorText(t *testing.T) {
	err := Wrap(ErrServerUnavailable, "GET /api/trades/")
	assert.Contains(t, ServerMessage(err), "server unavailable")
	assert.False(t, IsClientError(err))
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := Wrapf(ErrBadResponse, "GET /api/stats/summary: %v", "unexpected EOF")
	assert.True(t, Is(err, ErrBadResponse))
	assert.False(t, Is(err, ErrServerUnavailable))
}

func TestValidationErrorFormatting(t *testing.T) {
	err := NewValidationError("exit_price", -1.0, "must be greater than zero")
	assert.Contains(t, err.Error(), "exit_price")
	assert.Contains(t, err.Error(), "must be greater than zero")
}

func TestRequestErrorChainsStatusSentinels(t *testing.T) {
	notFound := NewRequestError(http.MethodGet, "/api/trades/99", 404, "not_found", "Trade not found")
	assert.True(t, Is(notFound, ErrNotFound))
	assert.False(t, Is(notFound, ErrInvalidInput))

	invalid := NewRequestError(http.MethodPost, "/api/trades/", 400, "invalid", "Entry price must be positive")
	assert.True(t, Is(invalid, ErrInvalidInput))

	conflict := NewRequestError(http.MethodPost, "/api/watchlist/", 409, "conflict", "Symbol already exists")
	assert.False(t, Is(conflict, ErrNotFound))
	assert.False(t, Is(conflict, ErrInvalidInput))

	// The message the user sees stays the server's own text.
	assert.Equal(t, "Trade not found", ServerMessage(notFound))
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := NewValidationError("exit_price", -1.0, "must be greater than zero")
	assert.True(t, Is(err, ErrInvalidInput))
}
