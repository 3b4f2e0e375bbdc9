package httpapi

import (
	"encoding/json"
	"net/http"
)

// apiError is a classified failure: validationError for malformed input
// (400-class, per spec.md §7), upstreamError for distance-provider
// failures (502-class). Solver infeasibility and timeouts never reach
// this type — the planner always recovers them locally.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func validationError(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func upstreamError(msg string) *apiError {
	return &apiError{status: http.StatusBadGateway, message: msg}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err *apiError) {
	writeJSON(w, err.status, map[string]string{"error": err.message})
}
