package handler

import (
	"encoding/json"
	"net/http"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeTypedError maps the error taxonomy onto HTTP statuses and emits the
// kind tag so the UI can render kind-specific guidance.
func writeTypedError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNetwork:
		status = http.StatusServiceUnavailable
	case apperr.KindServer, apperr.KindParse:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{
		"error": apperr.UserMessage(err),
		"kind":  string(kind),
	})
}
