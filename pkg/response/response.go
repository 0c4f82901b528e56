// Package response renders the JSON envelope every API endpoint uses:
//
//	{"status": 200, "data": {...}}
//	{"status": 409, "message": "...", "errors": [...]}
package response

import (
	"encoding/json"
	"net/http"
)

type payload struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSON writes an arbitrary body with the given status code. The typed
// helpers below are preferred; JSON is the escape hatch for endpoints
// that do not fit the envelope.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, payload{Status: http.StatusOK, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, payload{Status: http.StatusCreated, Data: data})
}

// Paginated sends a 200 with data plus pagination metadata.
func Paginated(w http.ResponseWriter, data interface{}, pagination interface{}) {
	JSON(w, http.StatusOK, payload{
		Status: http.StatusOK,
		Data: map[string]interface{}{
			"items":      data,
			"pagination": pagination,
		},
	})
}

// Error sends a plain error message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, payload{Status: status, Message: message})
}

// ErrorWithDetails carries structured detail next to the message, e.g.
// the per-item breakdown of an insufficient-stock rejection.
func ErrorWithDetails(w http.ResponseWriter, status int, message string, details interface{}) {
	JSON(w, status, payload{Status: status, Message: message, Errors: details})
}

// ValidationError sends a 422 with the field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	ErrorWithDetails(w, http.StatusUnprocessableEntity, "Validation failed", errs)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) { Error(w, http.StatusForbidden, "Forbidden") }

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) { Error(w, http.StatusNotFound, "Not found") }
