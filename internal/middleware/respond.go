package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends the API error envelope without depending on the handler package.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
