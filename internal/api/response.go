package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error bodies shared by several handlers.
const (
	msgInternal     = "Internal server error"
	msgItemNotFound = "Item not found"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// internalError logs the cause and writes a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, what string, err error) {
	slog.Error(what, "error", err, "request_id", RequestID(r.Context()))
	jsonError(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
