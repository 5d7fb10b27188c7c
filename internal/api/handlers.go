// Package api wires the HTTP surface: the public contact endpoint, the
// authenticated admin dashboard API, and health.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/websitemybusiness/contact-relay/internal/config"
	"github.com/websitemybusiness/contact-relay/internal/service/contact"
	"github.com/websitemybusiness/contact-relay/internal/validate"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	svc *contact.Service
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(svc *contact.Service, cfg *config.Config) *Handlers {
	return &Handlers{svc: svc, cfg: cfg}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// SubmitContact handles POST /api/contact: validate, persist, dispatch.
// The write is the durability boundary; a throttled or failed dispatch
// never undoes it.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var in validate.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sub, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.FirstMessage())
			return
		}
		respondSafeError(w, http.StatusInternalServerError, err,
			"An error occurred. Please try again.")
		return
	}

	if err := h.svc.Dispatch(r.Context(), sub); err != nil {
		switch {
		case errors.Is(err, contact.ErrThrottled):
			respondError(w, http.StatusTooManyRequests,
				"Too many submissions. Please try again later.")
		default:
			var verr *contact.ValidationError
			if errors.As(err, &verr) {
				respondError(w, http.StatusBadRequest, verr.FirstMessage())
				return
			}
			// Row is persisted; only the notification failed.
			respondSafeError(w, http.StatusInternalServerError, err,
				"An error occurred. Please try again.")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetChatWidget returns the live-chat embed configuration. The script is a
// scoped resource on the client: loaded on mount, removed on unmount, and
// this endpoint is its single source of truth.
func (h *Handlers) GetChatWidget(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"src": h.cfg.Contact.ChatWidgetURL,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondSafeError keeps internal detail (SQL errors, provider responses)
// out of API responses: the client gets publicMsg, the log gets everything.
func respondSafeError(w http.ResponseWriter, status int, internalErr error, publicMsg string) {
	if internalErr != nil {
		log.Printf("[api] %s: %v", publicMsg, internalErr)
	}
	respondError(w, status, publicMsg)
}
