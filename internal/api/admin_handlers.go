package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/websitemybusiness/contact-relay/internal/admin"
	"github.com/websitemybusiness/contact-relay/internal/service/contact"
)

// ListSubmissions handles GET /api/admin/submissions. Filtering happens
// over the fetched set, matching the dashboard it replaces.
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, total, err := h.svc.List(r.Context(), contact.ListFilter{})
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to load submissions")
		return
	}

	search := r.URL.Query().Get("search")
	rng := admin.ParseDateRange(r.URL.Query().Get("range"))
	filtered := admin.Filter(subs, search, rng, time.Now())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": filtered,
		"filtered":    len(filtered),
		"total":       total,
	})
}

// ExportSubmissions handles GET /api/admin/submissions/export, streaming
// the currently filtered set as a CSV download.
func (h *Handlers) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, _, err := h.svc.List(r.Context(), contact.ListFilter{})
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to load submissions")
		return
	}

	search := r.URL.Query().Get("search")
	rng := admin.ParseDateRange(r.URL.Query().Get("range"))
	filtered := admin.Filter(subs, search, rng, time.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+admin.ExportFilename(time.Now())+`"`)
	if err := admin.WriteCSV(w, filtered); err != nil {
		// Headers are already gone; log is all we can do.
		log.Printf("[api] CSV export failed: %v", err)
	}
}

// DeleteSubmission handles DELETE /api/admin/submissions/{id}. Deletes are
// idempotent: removing an already-removed row succeeds.
func (h *Handlers) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing submission id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "Failed to delete submission")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
