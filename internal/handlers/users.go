package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ukydev/fleet-admin/internal/auth"
	"github.com/ukydev/fleet-admin/internal/models"
	"github.com/ukydev/fleet-admin/internal/view"
)

// UserHandler exposes the privileged user-management calls. Every route here
// sits behind the admin gate.
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a user management handler.
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// List returns all users from the auth service, with search and sort.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "Failed to load users", http.StatusInternalServerError)
		return
	}

	users = view.SearchUsers(users, r.URL.Query().Get("search"))
	if key := r.URL.Query().Get("sort"); key != "" {
		users = view.SortBy(users, view.UserSortValue(key), r.URL.Query().Get("dir") == "desc")
	}
	writeJSON(w, http.StatusOK, users)
}

// Create provisions a user with email, password, display name, and role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.authService.CreateUser(r.Context(), req)
	if errors.Is(err, auth.ErrEmailTaken) {
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// UpdateRole sets a user's role claim and mirrors it into the store. The
// user sees the new role after their next token refresh.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	err := h.authService.UpdateUserRole(r.Context(), r.PathValue("uid"), req.Role)
	if errors.Is(err, auth.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Role updated successfully")
}

// Sync bulk-mirrors auth records into the users collection.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	n, err := h.authService.SyncUsers(r.Context())
	if err != nil {
		http.Error(w, "Failed to sync users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"synced": n})
}
