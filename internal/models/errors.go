package models

import (
	"encoding/json"
	"net/http"
)

// Error type names carried in QueryResult.ErrorType and error payloads.
const (
	ErrTypeValidation = "ValidationError"
	ErrTypeTimeout    = "TimeoutError"
	ErrTypeGeneration = "GenerationFailure"
	ErrTypeExecution  = "ExecutionError"
	ErrTypeUnexpected = "UnexpectedError"
)

type ErrorResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	ErrorType   string   `json:"error_type,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Code        int      `json:"code,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteErrorDetail(w, code, message, "", nil)
}

func WriteErrorDetail(w http.ResponseWriter, code int, message, errType string, suggestions []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:      "error",
		Message:     message,
		ErrorType:   errType,
		Suggestions: suggestions,
		Code:        code,
	})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
