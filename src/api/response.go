package api

import (
	"encoding/json"
	"net/http"
)

// responseBuilder builds HTTP responses, the same helper shape the
// teacher's views.ResponseBuilder used.
type responseBuilder struct{}

func newResponseBuilder() *responseBuilder {
	return &responseBuilder{}
}

// jsonResponse sends a JSON response with the given status code.
func (b *responseBuilder) jsonResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}
}

// errorResponse sends an error response with the given message and
// status code.
func (b *responseBuilder) errorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResponse := struct {
		Error   string `json:"error"`
		Status  int    `json:"status"`
		Message string `json:"message"`
	}{
		Error:   http.StatusText(statusCode),
		Status:  statusCode,
		Message: message,
	}

	b.jsonResponse(w, errorResponse, statusCode)
}
