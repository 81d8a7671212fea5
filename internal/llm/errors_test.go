package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestCategoryForStatus(t *testing.T) {
	tests := []struct {
		code int
		want Category
	}{
		{http.StatusTooManyRequests, CategoryRateLimit},
		{http.StatusInternalServerError, CategoryServer},
		{http.StatusBadGateway, CategoryServer},
		{http.StatusServiceUnavailable, CategoryServer},
		{http.StatusGatewayTimeout, CategoryTimeout},
		{http.StatusUnauthorized, CategoryAuth},
		{http.StatusBadRequest, CategoryBadRequest},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryForStatus(tt.code))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  Category
		retryable bool
	}{
		{"googleapi 503", &googleapi.Error{Code: 503, Message: "overloaded"}, CategoryServer, true},
		{"googleapi 400", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 400}), CategoryBadRequest, false},
		{"deadline", context.DeadlineExceeded, CategoryTimeout, true},
		{"empty", fmt.Errorf("no candidates: %w", ErrEmptyResponse), CategoryEmpty, false},
		{"rate limit text", errors.New("rate_limit exceeded"), CategoryRateLimit, true},
		{"invalid key text", errors.New("API key not valid"), CategoryAuth, false},
		{"unknown", errors.New("boom"), CategoryUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(ProviderGemini, tt.err)
			var apiErr *APIError
			assert.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.category, apiErr.Category)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.NoError(t, Classify(ProviderGemini, nil))
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Provider: ProviderOpenAI, StatusCode: 429, Category: CategoryRateLimit, Message: "slow down"}
	assert.Equal(t, "openai rate_limit (HTTP 429): slow down", err.Error())
}
