package handlers

import (
	"net/http"

	"github.com/promptcraft/promptcraft-api/internal/export"
)

type AdminHandler struct {
	export *export.Service
}

func NewAdminHandler(exp *export.Service) *AdminHandler {
	return &AdminHandler{export: exp}
}

// Export streams the entity tables. Default is the full graph as JSON;
// `?format=csv&table=<name>` dumps one table as CSV.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		if err := h.export.WriteJSON(r.Context(), w); err != nil {
			writeError(w, err)
		}
	case "csv":
		table := r.URL.Query().Get("table")
		if table == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table parameter required for csv export"})
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		if err := h.export.WriteCSV(r.Context(), w, table); err != nil {
			writeError(w, err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be json or csv"})
	}
}
