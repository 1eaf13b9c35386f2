package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/models"
	"github.com/ukydev/fleet-admin/internal/validate"
	"github.com/ukydev/fleet-admin/internal/view"
)

// SubcontractorStore is the data access surface the subcontractor screens
// need.
type SubcontractorStore interface {
	List(ctx context.Context) ([]models.Subcontractor, error)
	GetByID(ctx context.Context, id string) (*models.Subcontractor, error)
	Create(ctx context.Context, sc models.Subcontractor) (string, error)
	Update(ctx context.Context, id string, sc models.Subcontractor) error
	Delete(ctx context.Context, id string) error
}

// SubcontractorHandler serves the subcontractor screens.
type SubcontractorHandler struct {
	store SubcontractorStore
}

// NewSubcontractorHandler creates a subcontractor handler.
func NewSubcontractorHandler(store SubcontractorStore) *SubcontractorHandler {
	return &SubcontractorHandler{store: store}
}

// List returns subcontractors with search and sort applied.
func (h *SubcontractorHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to load subcontractors", http.StatusInternalServerError)
		return
	}

	subs = view.SearchSubcontractors(subs, r.URL.Query().Get("search"))
	if key := r.URL.Query().Get("sort"); key != "" {
		subs = view.SortBy(subs, view.SubcontractorSortValue(key), r.URL.Query().Get("dir") == "desc")
	}
	writeJSON(w, http.StatusOK, subs)
}

// Get returns one subcontractor by id.
func (h *SubcontractorHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Failed to load subcontractor", http.StatusInternalServerError)
		return
	}
	if sc == nil {
		http.Error(w, "Subcontractor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// Create validates the form and persists a new subcontractor.
func (h *SubcontractorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in validate.SubcontractorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	sc, errs := validate.Subcontractor(in)
	if errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	id, err := h.store.Create(r.Context(), sc)
	if err != nil {
		http.Error(w, "Failed to create subcontractor", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update validates the edit form and replaces the mutable fields.
func (h *SubcontractorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in validate.SubcontractorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	sc, errs := validate.Subcontractor(in)
	if errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	err := h.store.Update(r.Context(), r.PathValue("id"), sc)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Subcontractor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update subcontractor", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Subcontractor updated successfully")
}

// Delete removes a subcontractor. Trucks holding its id keep the weak
// reference.
func (h *SubcontractorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Subcontractor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to delete subcontractor", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Subcontractor deleted successfully")
}
