package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/feedback"
)

// ResponseHandler serves the response sub-resources of an instance.
type ResponseHandler struct {
	svc *feedback.Service
}

func NewResponseHandler(svc *feedback.Service) *ResponseHandler {
	return &ResponseHandler{svc: svc}
}

func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid instance ID"})
		return
	}

	var req feedback.ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	resp, err := h.svc.AddResponse(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid instance ID"})
		return
	}

	offset, limit := pageParams(r)

	items, total, err := h.svc.ListResponses(r.Context(), id, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page{Items: items, Total: total, Offset: offset, Limit: limit})
}
