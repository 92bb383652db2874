package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptcraft/promptcraft-api/internal/store"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", errors.Join(store.ErrNotFound), http.StatusNotFound, "not_found"},
		{"validation", store.Invalid("score", "must be between 0.0 and 1.0"), http.StatusBadRequest, "validation"},
		{"storage", errors.New("connection refused"), http.StatusServiceUnavailable, "storage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantKind)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/prompts?offset=20&limit=10", nil)
	offset, limit := pageParams(r)
	assert.Equal(t, 20, offset)
	assert.Equal(t, 10, limit)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
	offset, limit = pageParams(r)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 50, limit, "limit defaults to 50 when absent")
}
