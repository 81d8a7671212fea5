// Package middleware provides HTTP middleware for client authentication.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const clientIDKey contextKey = "clientID"

// ErrNoClient is returned when the request carries no authenticated client.
var ErrNoClient = errors.New("client ID not found in request context")

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (ClientIdentity, error)
}

// ClientIdentity exposes the client a token was issued to.
type ClientIdentity interface {
	ClientID() string
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's client ID in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			identity, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := WithClientID(r.Context(), identity.ClientID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="profile-extractor"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// WithClientID returns a context carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// GetClientID returns the authenticated client ID of the request.
func GetClientID(r *http.Request) (string, error) {
	id, ok := r.Context().Value(clientIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoClient
	}
	return id, nil
}
