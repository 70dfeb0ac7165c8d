package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string       `json:"error"`
	Message    string       `json:"message"`
	RequestID  string       `json:"request_id"`
	Timestamp  time.Time    `json:"timestamp"`
	RetryAfter *int         `json:"retry_after,omitempty"`
	Fields     []FieldError `json:"field_errors,omitempty"`
}

// FieldError carries one field-level validation failure
type FieldError struct {
	Field        string `json:"field"`
	Message      string `json:"message"`
	InvalidValue any    `json:"invalid_value,omitempty"`
}
