package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/profile-extractor/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "domain", Message: "is required"}
	assert.Equal(t, "validation error: domain - is required", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&ErrValidation{Field: "url"}, http.StatusBadRequest},
		{fmt.Errorf("decode: %w", &ErrValidation{Field: "body"}), http.StatusBadRequest},
		{fmt.Errorf("%w: bad domain", pipeline.ErrInvalidSubmission), http.StatusBadRequest},
		{pipeline.ErrQueueFull, http.StatusServiceUnavailable},
		{pipeline.ErrNotRunning, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}
