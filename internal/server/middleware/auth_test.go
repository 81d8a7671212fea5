package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator map[string]string

type identity string

func (i identity) ClientID() string { return string(i) }

func (v staticValidator) ValidateToken(token string) (ClientIdentity, error) {
	client, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return identity(client), nil
}

func protectedHandler(t *testing.T, v TokenValidator) (http.Handler, *string) {
	t.Helper()
	var seen string
	h := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetClientID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	h, seen := protectedHandler(t, staticValidator{"tok-123": "crm-sync"})

	for _, header := range []string{"Bearer tok-123", "bearer tok-123", "  BEARER   tok-123 "} {
		req := httptest.NewRequest(http.MethodGet, "/jobs/abc", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, "crm-sync", *seen)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	h, _ := protectedHandler(t, staticValidator{"tok-123": "crm-sync"})

	tests := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Basic tok-123",
		"no token":        "Bearer",
		"extra parts":     "Bearer tok-123 extra",
		"unknown token":   "Bearer tok-999",
		"token no scheme": "tok-123",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestGetClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetClientID(req)
	assert.ErrorIs(t, err, ErrNoClient)

	req = req.WithContext(context.WithValue(req.Context(), clientIDKey, 42))
	_, err = GetClientID(req)
	assert.ErrorIs(t, err, ErrNoClient)

	req = req.WithContext(WithClientID(req.Context(), "batch"))
	id, err := GetClientID(req)
	require.NoError(t, err)
	assert.Equal(t, "batch", id)
}
