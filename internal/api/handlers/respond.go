package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/promptcraft/promptcraft-api/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError translates the core error taxonomy for the wire: missing ids
// are definitive 404s, constraint violations are 400s, anything else is a
// retryable storage failure.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"kind": "not_found", "error": "resource not found"})
	case store.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"kind": "validation", "error": err.Error()})
	default:
		slog.Error("storage failure", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"kind": "storage", "error": "temporarily unavailable"})
	}
}

// pageParams reads offset/limit query params with the listing defaults.
// Range enforcement happens in the store.
func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 50
	}
	return offset, limit
}

// page is the envelope every collection endpoint returns.
type page struct {
	Items  interface{} `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}
