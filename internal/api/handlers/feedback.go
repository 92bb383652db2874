package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promptcraft/promptcraft-api/internal/feedback"
	"github.com/promptcraft/promptcraft-api/internal/readiness"
)

// FeedbackHandler serves feedback submission plus the aggregate read
// paths (collection, stats, readiness) hanging off a prompt.
type FeedbackHandler struct {
	svc  *feedback.Service
	eval *readiness.Evaluator
}

func NewFeedbackHandler(svc *feedback.Service, eval *readiness.Evaluator) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, eval: eval}
}

type feedbackRequest struct {
	Score float64 `json:"score"`
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid response ID"})
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fb, err := h.svc.AddFeedback(r.Context(), id, req.Score)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) ListForPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	offset, limit := pageParams(r)

	items, total, err := h.svc.ListForPrompt(r.Context(), id, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page{Items: items, Total: total, Offset: offset, Limit: limit})
}

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	stats, err := h.svc.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *FeedbackHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	verdict, err := h.eval.Evaluate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}
