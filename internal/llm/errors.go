package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrNoEnhancement is returned by the Gateway when no usable completion could
// be obtained. Callers continue with the heuristic baseline.
var ErrNoEnhancement = errors.New("no enhancement available")

// ErrEmptyResponse marks a completion with no text.
var ErrEmptyResponse = errors.New("empty response")

// Category classifies a provider failure.
type Category string

// Failure categories. Server, rate limit, timeout and transport failures are retryable.
const (
	CategoryServer     Category = "server_error"
	CategoryRateLimit  Category = "rate_limit"
	CategoryTimeout    Category = "timeout"
	CategoryTransport  Category = "transport"
	CategoryAuth       Category = "auth"
	CategoryBadRequest Category = "bad_request"
	CategoryEmpty      Category = "empty_response"
	CategoryUnknown    Category = "unknown"
)

// APIError is a classified provider failure.
type APIError struct {
	Provider   Provider
	StatusCode int
	Category   Category
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	provider := e.Provider
	if provider == "" {
		provider = "llm"
	}
	msg := fmt.Sprintf("%s %s", provider, e.Category)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	switch e.Category {
	case CategoryServer, CategoryRateLimit, CategoryTimeout, CategoryTransport:
		return true
	default:
		return false
	}
}

// CategoryForStatus maps an HTTP status code to a failure category.
func CategoryForStatus(code int) Category {
	switch {
	case code == http.StatusTooManyRequests:
		return CategoryRateLimit
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return CategoryTimeout
	case code >= 500:
		return CategoryServer
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return CategoryAuth
	case code >= 400:
		return CategoryBadRequest
	default:
		return CategoryUnknown
	}
}

// Classify wraps err in an *APIError. Errors that are already classified are
// returned unchanged.
func Classify(provider Provider, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	classified := &APIError{Provider: provider, Category: CategoryUnknown, Cause: err}

	var gerr *googleapi.Error
	var netErr net.Error
	switch {
	case errors.As(err, &gerr):
		classified.StatusCode = gerr.Code
		classified.Category = CategoryForStatus(gerr.Code)
		classified.Message = gerr.Message
	case errors.Is(err, ErrEmptyResponse):
		classified.Category = CategoryEmpty
	case errors.Is(err, context.DeadlineExceeded):
		classified.Category = CategoryTimeout
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			classified.Category = CategoryTimeout
		} else {
			classified.Category = CategoryTransport
		}
	default:
		classified.Category = categoryFromMessage(err.Error())
	}
	return classified
}

// categoryFromMessage covers SDK errors that only carry the status in text.
func categoryFromMessage(msg string) Category {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate_limit"), strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "429"), strings.Contains(lower, "resource_exhausted"):
		return CategoryRateLimit
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return CategoryTimeout
	case strings.Contains(lower, "500"), strings.Contains(lower, "502"),
		strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return CategoryServer
	case strings.Contains(lower, "401"), strings.Contains(lower, "403"),
		strings.Contains(lower, "api key"), strings.Contains(lower, "permission"):
		return CategoryAuth
	case strings.Contains(lower, "400"), strings.Contains(lower, "invalid argument"):
		return CategoryBadRequest
	default:
		return CategoryUnknown
	}
}

// IsRetryable reports whether err is a retryable provider failure.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}
