package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/models"
)

// WaitlistStore is the data access surface the waitlist screen needs.
type WaitlistStore interface {
	List(ctx context.Context) ([]models.WaitlistEntry, error)
	Create(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, id string) error
}

// WaitlistHandler serves the waitlist screen. Signup is public; listing and
// deletion are operator actions.
type WaitlistHandler struct {
	store WaitlistStore
}

// NewWaitlistHandler creates a waitlist handler.
func NewWaitlistHandler(store WaitlistStore) *WaitlistHandler {
	return &WaitlistHandler{store: store}
}

// List returns all waitlist entries, newest first.
func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to load waitlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create adds an email to the waitlist.
func (h *WaitlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		http.Error(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	id, err := h.store.Create(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Failed to join waitlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Delete removes a single waitlist entry.
func (h *WaitlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to delete entry", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Entry deleted successfully")
}
