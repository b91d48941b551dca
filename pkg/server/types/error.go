package types

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error and determines the HTTP status.
	Type string `json:"type"`

	// Param is the request field that caused the error, if any.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error types.
const (
	ErrorTypeInvalidRequest   = "invalid_request_error" // 400
	ErrorTypeNotFound         = "not_found"             // 404
	ErrorTypeMethodNotAllowed = "method_not_allowed"    // 405
	ErrorTypeTooLarge         = "request_too_large"     // 413
	ErrorTypeServerError      = "server_error"          // 500
	ErrorTypeUnavailable      = "service_unavailable"   // 503
)

// Error codes.
const (
	CodeMissingField    = "missing_field"
	CodeInvalidValue    = "invalid_value"
	CodeInvalidJSON     = "invalid_json"
	CodeRequestTooLarge = "request_too_large"
	CodeTooManyLines    = "too_many_lines"
	CodeInternalError   = "internal_error"
	CodeShuttingDown    = "shutting_down"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewTooLargeError creates an error response for oversized bodies (413).
func NewTooLargeError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeTooLarge, "", CodeRequestTooLarge)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// HTTPStatusCode returns the HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorTypeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes resp with the status its type implies.
func WriteError(w http.ResponseWriter, resp *ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Error.HTTPStatusCode())
	_ = json.NewEncoder(w).Encode(resp)
}
