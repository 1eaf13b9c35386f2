package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/middleware"
	"github.com/ukydev/fleet-admin/internal/models"
	"github.com/ukydev/fleet-admin/internal/validate"
	"github.com/ukydev/fleet-admin/internal/view"
)

// TruckStore is the data access surface the truck screens need.
type TruckStore interface {
	List(ctx context.Context) ([]models.Truck, error)
	GetByID(ctx context.Context, id string) (*models.Truck, error)
	Create(ctx context.Context, t models.Truck, createdBy string) (string, error)
	Update(ctx context.Context, id string, t models.Truck) error
	Watch(ctx context.Context) (<-chan []models.Truck, error)
}

// TruckHandler serves the truck list and edit screens. There is no delete
// endpoint: trucks are archived via status, never removed.
type TruckHandler struct {
	store TruckStore
}

// NewTruckHandler creates a truck handler.
func NewTruckHandler(store TruckStore) *TruckHandler {
	return &TruckHandler{store: store}
}

// List returns trucks with the screen's derived state applied server-side:
// partition (view=own|subcontractor|all), search, and sort.
func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to load trucks", http.StatusInternalServerError)
		return
	}

	q := view.TruckQuery{
		View:   view.TruckView(r.URL.Query().Get("view")),
		Search: r.URL.Query().Get("search"),
		Sort: view.SortState{
			Key:  r.URL.Query().Get("sort"),
			Desc: r.URL.Query().Get("dir") == "desc",
		},
	}
	if q.View == "" {
		q.View = view.TruckViewAll
	}

	writeJSON(w, http.StatusOK, q.Apply(trucks))
}

// Get returns one truck by id.
func (h *TruckHandler) Get(w http.ResponseWriter, r *http.Request) {
	truck, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Failed to load truck", http.StatusInternalServerError)
		return
	}
	if truck == nil {
		http.Error(w, "Truck not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, truck)
}

// Create validates the creation form and persists a new truck.
func (h *TruckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in validate.TruckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	truck, errs := validate.Truck(in)
	if errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	createdBy := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		createdBy = claims.UID
	}

	id, err := h.store.Create(r.Context(), truck, createdBy)
	if errors.Is(err, db.ErrDuplicatePlate) {
		http.Error(w, "License plate already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "Failed to create truck", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update validates the edit form and replaces the truck's mutable fields.
func (h *TruckHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in validate.TruckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	truck, errs := validate.Truck(in)
	if errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	err := h.store.Update(r.Context(), r.PathValue("id"), truck)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Truck not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, db.ErrDuplicatePlate) {
		http.Error(w, "License plate already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update truck", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Truck updated successfully")
}

// Live streams the full truck list as server-sent events, one event per
// change, starting with a snapshot. The stream ends when the client goes
// away.
func (h *TruckHandler) Live(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, err := h.store.Watch(r.Context())
	if err != nil {
		http.Error(w, "Failed to subscribe", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for trucks := range updates {
		payload, err := json.Marshal(trucks)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
