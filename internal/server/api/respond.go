// Package api implements the JSON handlers behind /api.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayusman/handgrain/internal/control"
)

// Controller is the live engine session as seen by HTTP handlers.
type Controller interface {
	Post(ctx context.Context, ev control.Event) error
	Snapshot() control.Snapshot
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
