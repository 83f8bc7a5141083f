package apimsg

import (
	"encoding/json"
	"net/http"
)

// WriteJSON renders any payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteError renders a catalog message as the standard failure envelope.
func WriteError(w http.ResponseWriter, msg Message) {
	WriteJSON(w, msg.Status, map[string]any{
		"success": false,
		"code":    msg.Code,
		"message": msg.Message,
	})
}
