package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-admin/internal/storage"
)

// UploadHandler forwards files to the object host and returns their public
// URLs, used for truck photos and subcontractor/insurance documents.
type UploadHandler struct {
	storage *storage.Client
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(client *storage.Client) *UploadHandler {
	return &UploadHandler{storage: client}
}

// Upload accepts a multipart file plus a destination prefix and responds
// with the stored object's URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	prefix := r.FormValue("prefix")
	if prefix == "" {
		prefix = "uploads"
	}

	url, err := h.storage.Upload(r.Context(), file, storage.ObjectPath(prefix, header.Filename))
	if err != nil {
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
