package dto

import "time"

// ErrorResponse is the standard error body returned by every endpoint.
type ErrorResponse struct {
	Message      string    `json:"message" example:"product not found"`
	ErrorDetails string    `json:"error,omitempty" example:"sql: connection refused"`
	Timestamp    time.Time `json:"timestamp" example:"2025-01-05T10:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// The inner error, when given, is exposed as ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
