package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ukydev/fleet-admin/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeFieldErrors surfaces validation failures per field so the form can
// attach each message to its input.
func writeFieldErrors(w http.ResponseWriter, errs validate.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
