package web

import (
	"encoding/json"
	"net/http"
)

// renderJSON renders a JSON response
func renderJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError renders an error response
func renderError(w http.ResponseWriter, code int, message string) {
	renderJSON(w, code, map[string]string{"error": message})
}
